package devices

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voicescribe/voicescribe-go/internal/capture"
)

// Command creates the devices command listing available capture devices.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := capture.EnumerateDevices()
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Println("No capture devices found.")
				return nil
			}

			for _, d := range list {
				marker := " "
				if d.Default {
					marker = "*"
				}
				fmt.Printf("%s %2d  %s (%s)\n", marker, d.Index, d.Name, d.ID)
			}
			return nil
		},
	}
}
