// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/decode"
	"github.com/ik5/audmix/stream"
)

// Resample decodes the whole of src and returns it converted to spec, the
// way a channel would play it once. quality selects the rate converter as
// in WithResampleQuality. src is closed on return.
//
// It is meant for tools and tests; playback should go through a System so
// assets are decoded incrementally.
//
//	src, _ := stream.Open("voice.ogg")
//	pcm, err := audmix.Resample(src, audio.Spec{SampleRate: 8000, Channels: 1, Format: audio.FormatS16}, 0)
func Resample(src stream.Source, spec audio.Spec, quality int) ([]byte, error) {
	g, err := decode.Open(src, spec, decode.Options{Quality: quality})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	info := g.Info()

	// Start with about two seconds and grow by doubling.
	out := make([]byte, 0, 2*info.SampleRate*spec.FrameSize())

	var buf decode.Buffer
	buf.Grow(g.MaxChunk())

	for {
		err := g.Next(&buf)
		if errors.Is(err, decode.ErrNoMoreContent) {
			return out, nil
		}
		if err != nil {
			return out, err
		}

		out = append(out, buf.Unread()...)
		buf.Consume(buf.Len())
	}
}
