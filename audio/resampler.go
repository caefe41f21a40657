// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audmix/utils"
)

// RateConverter converts interleaved float32 frames from one sample rate to
// another. Converters may hold input back; Flush drains what is left once
// the input has ended.
type RateConverter interface {
	// Process consumes all of src and writes converted samples to dst,
	// returning the number of samples written.
	Process(dst, src []float32) (int, error)
	// Flush writes held-back samples to dst. It returns 0 once empty.
	Flush(dst []float32) int
	// OutputSize bounds the samples Process can write for n input samples.
	OutputSize(n int) int
}

// NewRateConverter picks a converter for the given rates. Equal rates give a
// copying converter, quality 0 the cubic Resampler and quality 1..10 the
// windowed-sinc SincResampler.
func NewRateConverter(srcRate, dstRate, channels, quality int) RateConverter {
	switch {
	case srcRate == dstRate:
		return passthrough{channels: channels}
	case quality > 0:
		return NewSincResampler(srcRate, dstRate, channels, quality)
	}
	return NewResampler(srcRate, dstRate, channels)
}

type passthrough struct{ channels int }

func (p passthrough) Process(dst, src []float32) (int, error) {
	if len(src)%p.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	return copy(dst, src), nil
}

func (passthrough) Flush([]float32) int    { return 0 }
func (passthrough) OutputSize(n int) int { return n }

// Resampler converts to a target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source frames per output frame
	channels int

	// Input frames not yet fully used by the interpolator.
	queue []float32
	// The frame preceding queue[0]; duplicates the first frame until
	// anything has been dropped.
	prev   []float32
	primed bool

	// Position of the next output frame, in source frames relative to queue[0].
	pos float64

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(srcRate, dstRate, channels int) *Resampler {
	ratio := float64(srcRate) / float64(dstRate)

	// Enable simple low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		// One-pole low-pass with a fixed coefficient.
		filterAlpha = 0.5
	}

	return &Resampler{
		srcRate:     float64(srcRate),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		channels:    channels,
		queue:       make([]float32, 0, 4096),
		prev:        make([]float32, channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) OutputSize(n int) int {
	frames := n/r.channels + len(r.queue)/r.channels + 1
	return (int(math.Ceil(float64(frames)/r.ratio)) + 1) * r.channels
}

func (r *Resampler) Process(dst, src []float32) (int, error) {
	if len(src)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(src) == 0 {
		return 0, nil
	}

	start := len(r.queue)
	r.queue = append(r.queue, src...)

	if !r.primed {
		copy(r.prev, src[:r.channels])
		// Initialize filter state with first sample to avoid warm-up transients
		copy(r.filterState, src[:r.channels])
		r.primed = true
	}

	if r.useFilter {
		for i := start; i < len(r.queue); i += r.channels {
			for c := range r.channels {
				// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
				y := r.filterAlpha*r.queue[i+c] + (1-r.filterAlpha)*r.filterState[c]
				r.queue[i+c] = y
				r.filterState[c] = y
			}
		}
	}

	return r.emit(dst, false), nil
}

// Flush interpolates the frames still queued, clamping at the last frame.
func (r *Resampler) Flush(dst []float32) int {
	return r.emit(dst, true)
}

func (r *Resampler) frame(i, n int) []float32 {
	if i < 0 {
		return r.prev
	}
	if i >= n {
		i = n - 1
	}
	return r.queue[i*r.channels : (i+1)*r.channels]
}

func (r *Resampler) emit(dst []float32, draining bool) int {
	n := len(r.queue) / r.channels
	written := 0

	for written+r.channels <= len(dst) {
		i := int(r.pos)
		// Interpolating at i needs frames i-1 .. i+2; draining clamps the tail.
		if i >= n || (!draining && i+2 >= n) {
			break
		}

		alpha := float32(r.pos - float64(i))
		y0, y1, y2, y3 := r.frame(i-1, n), r.frame(i, n), r.frame(i+1, n), r.frame(i+2, n)
		for c := range r.channels {
			dst[written+c] = utils.CubicInterpolate(y0[c], y1[c], y2[c], y3[c], alpha)
		}

		written += r.channels
		r.pos += r.ratio
	}

	r.compact(n)
	return written
}

// compact drops frames the interpolator has moved past, keeping the last
// one dropped as prev.
func (r *Resampler) compact(n int) {
	drop := min(int(r.pos), n)
	if drop <= 0 {
		return
	}

	copy(r.prev, r.frame(drop-1, n))
	r.queue = r.queue[:copy(r.queue, r.queue[drop*r.channels:])]
	r.pos -= float64(drop)
}
