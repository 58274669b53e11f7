package capture

import (
	"encoding/hex"
	"runtime"
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/voicescribe/voicescribe-go/internal/errors"
)

// DeviceInfo holds information about an audio capture device
type DeviceInfo struct {
	Index   int
	Name    string
	ID      string
	Default bool
}

// backendForPlatform returns the appropriate malgo backend for the current platform
func backendForPlatform() (malgo.Backend, error) {
	switch runtime.GOOS {
	case "linux":
		return malgo.BackendAlsa, nil
	case "windows":
		return malgo.BackendWasapi, nil
	case "darwin":
		return malgo.BackendCoreaudio, nil
	default:
		return malgo.BackendNull, errors.New(nil).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("error", "unsupported operating system").
			Context("os", runtime.GOOS).
			Build()
	}
}

// EnumerateDevices returns a list of available audio capture devices
func EnumerateDevices() ([]DeviceInfo, error) {
	backend, err := backendForPlatform()
	if err != nil {
		return nil, err
	}

	ctx, err := malgo.InitContext([]malgo.Backend{backend}, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "init_context").
			Context("backend", runtime.GOOS).
			Build()
	}
	defer func() { _ = ctx.Uninit() }()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "enumerate_devices").
			Build()
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i := range infos {
		// Skip the discard/null device
		if strings.Contains(infos[i].Name(), "Discard all samples") {
			continue
		}

		decodedID, err := hexToASCII(infos[i].ID.String())
		if err != nil {
			decodedID = infos[i].ID.String()
		}

		devices = append(devices, DeviceInfo{
			Index:   i,
			Name:    infos[i].Name(),
			ID:      decodedID,
			Default: infos[i].IsDefault == 1,
		})
	}

	return devices, nil
}

// selectDevice finds a device matching the given name or ID. An empty name,
// "default" or "sysdefault" selects the system default device.
func selectDevice(devices []malgo.DeviceInfo, deviceName string) (*malgo.DeviceInfo, error) {
	if deviceName == "" || deviceName == "default" || deviceName == "sysdefault" {
		for i := range devices {
			if devices[i].IsDefault == 1 {
				return &devices[i], nil
			}
		}
		// No default found, use first device
		if len(devices) > 0 {
			return &devices[0], nil
		}
	}

	// Exact name match first
	for i := range devices {
		if devices[i].Name() == deviceName {
			return &devices[i], nil
		}
	}

	// Decoded ID match
	for i := range devices {
		decodedID, err := hexToASCII(devices[i].ID.String())
		if err == nil && decodedID == deviceName {
			return &devices[i], nil
		}
	}

	// Partial name match
	for i := range devices {
		if strings.Contains(devices[i].Name(), deviceName) {
			return &devices[i], nil
		}
	}

	return nil, errors.New(nil).
		Component("capture").
		Category(errors.CategoryNotFound).
		Context("device_name", deviceName).
		Context("available_devices", len(devices)).
		Context("error", "no matching audio device found").
		Build()
}

// hexToASCII decodes a hex-encoded device ID into a readable string.
func hexToASCII(hexStr string) (string, error) {
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(decoded), "\x00"), nil
}
