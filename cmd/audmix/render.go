// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		chans    channelFlags
		output   string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Mix assets offline into a WAV file",
		Long: `Mix assets into a WAV file in the configured device format, pulling one
device buffer at a time exactly like playback does. Rendering stops when every
channel has finished or the duration is reached; looping channels need a
duration.`,
		Example: "  audmix render --bgm title.ogg --voice line01.ogg -o mix.wav",
		RunE: func(*cobra.Command, []string) error {
			if chans.empty() {
				return errors.New("nothing to render: pass --bgm, --voice or --se")
			}
			for _, loop := range chans.loop {
				if loop && duration <= 0 {
					return errors.New("looping channels need --duration")
				}
			}

			return a.render(&chans, output, duration)
		},
	}

	chans.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "mix.wav", "WAV file to write")
	cmd.Flags().DurationVar(&duration, "duration", 0, "length limit (0 renders to the end)")

	return cmd
}

func (a *app) render(chans *channelFlags, output string, duration time.Duration) error {
	info := a.deviceInfo()

	sys, err := audmix.NewSystem(info, a.systemOptions()...)
	if err != nil {
		return err
	}
	defer sys.Close()

	if err := chans.start(sys); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, info.Spec())
	if err != nil {
		return err
	}

	limit := -1
	if duration > 0 {
		limit = int(duration.Seconds() * float64(info.SampleRate))
	}

	buf := make([]byte, info.Spec().BytesFor(info.BufferSize))
	frames := 0
	for playing(sys) && (limit < 0 || frames < limit) {
		n := info.BufferSize
		if limit >= 0 {
			n = min(n, limit-frames)
		}
		p := buf[:info.Spec().BytesFor(n)]

		sys.CopyMixedSamples(p)
		if _, err := w.Write(p); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		frames += n
	}

	if err := w.Close(); err != nil {
		return err
	}

	slog.Info("rendered", "file", output, "frames", frames,
		"seconds", float64(frames)/float64(info.SampleRate))
	return nil
}
