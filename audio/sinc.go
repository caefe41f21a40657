// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/oov/audio/resampler"
)

// sincFlushFrames of silence are pushed through the filter on Flush to
// drain its delay line; it covers the longest filter of the highest quality.
const sincFlushFrames = 256

// SincResampler is a windowed-sinc rate converter backed by
// github.com/oov/audio/resampler. It works on planar data internally.
type SincResampler struct {
	r        *resampler.Resampler
	channels int
	ratio    float64 // dstRate / srcRate

	in, out   [][]float32
	zeros     []float32
	flushLeft int
	flushing  bool
}

// NewSincResampler creates a converter; quality runs from 1 (fast) to 10 (best).
func NewSincResampler(srcRate, dstRate, channels, quality int) *SincResampler {
	quality = max(1, min(quality, 10))

	return &SincResampler{
		r:        resampler.New(channels, srcRate, dstRate, quality),
		channels: channels,
		ratio:    float64(dstRate) / float64(srcRate),
		in:       make([][]float32, channels),
		out:      make([][]float32, channels),
	}
}

func (s *SincResampler) OutputSize(n int) int {
	frames := n / s.channels
	return (int(math.Ceil(float64(frames)*s.ratio)) + 16) * s.channels
}

func (s *SincResampler) Process(dst, src []float32) (int, error) {
	if len(src)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	frames := len(src) / s.channels

	for c := range s.channels {
		s.in[c] = grow(s.in[c], frames)
		for f := range frames {
			s.in[c][f] = src[f*s.channels+c]
		}
	}

	return s.convert(dst, s.in, frames), nil
}

func (s *SincResampler) convert(dst []float32, planes [][]float32, frames int) int {
	capFrames := len(dst) / s.channels
	written := 0

	for c := range s.channels {
		s.out[c] = grow(s.out[c], capFrames)
		_, written = s.r.ProcessFloat32(c, planes[c][:frames], s.out[c][:capFrames])
	}

	for f := range written {
		for c := range s.channels {
			dst[f*s.channels+c] = s.out[c][f]
		}
	}

	return written * s.channels
}

// Flush pushes silence through the filter until its delay line is drained.
func (s *SincResampler) Flush(dst []float32) int {
	if !s.flushing {
		s.flushing = true
		s.flushLeft = sincFlushFrames
	}

	for s.flushLeft > 0 {
		fit := int(float64(len(dst)/s.channels-16) / s.ratio)
		frames := max(1, min(s.flushLeft, fit))
		s.flushLeft -= frames

		if len(s.zeros) < frames {
			s.zeros = make([]float32, frames)
		}
		planes := make([][]float32, s.channels)
		for c := range planes {
			planes[c] = s.zeros
		}

		if n := s.convert(dst, planes, frames); n > 0 {
			return n
		}
	}

	return 0
}

func grow(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
