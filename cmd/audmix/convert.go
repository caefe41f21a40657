// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/stream"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert INPUT OUTPUT.wav",
		Short: "Convert one asset to a WAV file in the device format",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			src, err := stream.Open(args[0])
			if err != nil {
				return err
			}

			spec := a.deviceInfo().Spec()
			pcm, err := audmix.Resample(src, spec, a.cfg.Decode.ResampleQuality)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			w, err := wav.NewWriter(f, spec)
			if err != nil {
				return err
			}
			if _, err := w.Write(pcm); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			slog.Info("converted", "from", args[0], "to", args[1],
				"rate", spec.SampleRate, "channels", spec.Channels, "format", spec.Format)
			return nil
		},
	}
}
