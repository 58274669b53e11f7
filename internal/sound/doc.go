// Package sound implements the audio-quality analysis and conditioning engine.
//
// The package has three layers:
//
//   - Calculate: a pure function producing a Metrics snapshot for one PCM
//     buffer (RMS, peak, dBFS, clipping and silence classification, noise
//     floor, signal-to-noise ratio and a composite quality score).
//   - Processor: a pure post-capture pipeline (silence trimming, adaptive
//     noise gate, peak normalization) gated by the session's quality preset.
//   - QualityMonitor: stateful per-session aggregation of metrics, recording
//     size-bound enforcement and the end-of-session quality report.
//
// Calculate and Processor.Process hold no state and may run on any
// goroutine, including the capture callback, without synchronization.
// QualityMonitor guards its session state with a single mutex so a UI
// goroutine polling statistics never observes a torn update.
//
// The package performs no file or network I/O; capture sources and file
// writers are collaborators layered on top (see internal/capture and
// internal/wave).
package sound
