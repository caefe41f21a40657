// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"log/slog"

	"github.com/ik5/audmix/audio"
)

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger diagnostics go to.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.log = l
		}
	}
}

// WithVolumes sets the initial volume of each channel, in ChannelID order.
// Missing values keep the default of 1.
func WithVolumes(volumes ...float32) Option {
	return func(s *System) {
		for i, v := range volumes[:min(len(volumes), MaxChannels)] {
			s.channels[i].volume = clampVolume(v)
		}
	}
}

// WithFrameSize sets how many source frames one decode step reads.
func WithFrameSize(frames int) Option {
	return func(s *System) { s.frameSize = frames }
}

// WithResampleQuality selects the rate converter: 0 for cubic
// interpolation, 1 to 10 for windowed sinc.
func WithResampleQuality(q int) Option {
	return func(s *System) { s.quality = q }
}

// WithRegistry replaces the built-in container registry.
func WithRegistry(r *audio.Registry) Option {
	return func(s *System) { s.registry = r }
}
