// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration",
			Long:  "Validate the configuration file and AUDMIX_ environment variables.",
			RunE: func(cmd *cobra.Command, _ []string) error {
				// setup has already loaded and validated it.
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				c := a.cfg
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, "Current Configuration:")
				fmt.Fprintln(out, "  Device:")
				fmt.Fprintf(out, "    Backend: %s\n", c.Device.Backend)
				fmt.Fprintf(out, "    Sample rate: %d\n", c.Device.SampleRate)
				fmt.Fprintf(out, "    Channels: %d\n", c.Device.Channels)
				fmt.Fprintf(out, "    Format: %s\n", c.Device.Format)
				fmt.Fprintf(out, "    Buffer frames: %d\n", c.Device.BufferFrames)
				fmt.Fprintf(out, "    Output: %s\n", c.Device.Output)
				fmt.Fprintln(out, "  Mixer:")
				fmt.Fprintf(out, "    BGM volume: %.2f\n", c.Mixer.BGMVolume)
				fmt.Fprintf(out, "    Voice volume: %.2f\n", c.Mixer.VoiceVolume)
				fmt.Fprintf(out, "    SE volume: %.2f\n", c.Mixer.SEVolume)
				fmt.Fprintln(out, "  Decode:")
				fmt.Fprintf(out, "    Frame size: %d\n", c.Decode.FrameSize)
				fmt.Fprintf(out, "    Resample quality: %d\n", c.Decode.ResampleQuality)
				fmt.Fprintln(out, "  Logging:")
				fmt.Fprintf(out, "    Level: %s\n", c.Logging.Level)
				fmt.Fprintf(out, "    Format: %s\n", c.Logging.Format)
				fmt.Fprintf(out, "    File: %s\n", c.Logging.File)

				return nil
			},
		},
	)

	return cmd
}
