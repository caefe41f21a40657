// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/internal/device"
)

// channelFlags are the per-channel asset flags shared by play and render.
type channelFlags struct {
	files [audmix.MaxChannels]string
	loop  [audmix.MaxChannels]bool
}

func (f *channelFlags) register(cmd *cobra.Command) {
	for id := range audmix.ChannelID(audmix.MaxChannels) {
		cmd.Flags().StringVar(&f.files[id], id.String(), "", fmt.Sprintf("asset played on the %s channel", id))
		cmd.Flags().BoolVar(&f.loop[id], "loop-"+id.String(), false, fmt.Sprintf("loop the %s channel", id))
	}
}

func (f *channelFlags) empty() bool {
	for _, file := range f.files {
		if file != "" {
			return false
		}
	}
	return true
}

func (f *channelFlags) start(sys *audmix.System) error {
	for id := range audmix.ChannelID(audmix.MaxChannels) {
		if f.files[id] == "" {
			continue
		}
		if err := sys.PlayFile(id, f.files[id], f.loop[id]); err != nil {
			return err
		}
	}
	return nil
}

func playing(sys *audmix.System) bool {
	for id := range audmix.ChannelID(audmix.MaxChannels) {
		if sys.IsPlaying(id) {
			return true
		}
	}
	return false
}

func newPlayCmd(a *app) *cobra.Command {
	var (
		chans    channelFlags
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play assets on the output device",
		Long: `Play assets on the configured output device until every non-looping
channel has finished, the duration elapses or the process is interrupted.`,
		Example: "  audmix play --bgm title.ogg --loop-bgm --se door.wav --duration 10s",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if chans.empty() {
				return errors.New("nothing to play: pass --bgm, --voice or --se")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			return a.play(ctx, &chans)
		},
	}

	chans.register(cmd)
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 plays to the end)")

	return cmd
}

func (a *app) play(ctx context.Context, chans *channelFlags) error {
	dev, err := device.Open(device.Config{
		Backend:      a.cfg.Device.Backend,
		SampleRate:   a.cfg.Device.SampleRate,
		Channels:     a.cfg.Device.Channels,
		Format:       a.cfg.SampleFormat(),
		BufferFrames: a.cfg.Device.BufferFrames,
		Output:       a.cfg.Device.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	defer dev.Close()

	sys, err := audmix.NewSystem(dev.Info(), a.systemOptions()...)
	if err != nil {
		return err
	}
	defer sys.Close()

	if err := chans.start(sys); err != nil {
		return err
	}
	if err := dev.Start(sys); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for playing(sys) {
		select {
		case <-ctx.Done():
			slog.Info("stopping", "reason", context.Cause(ctx))
			return nil
		case <-tick.C:
		}
	}

	slog.Info("all channels finished")
	return nil
}
