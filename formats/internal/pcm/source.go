// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio style integer PCM readers to audio.Source.
package pcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// BufferReader is implemented by the go-audio wav and aiff decoders.
type BufferReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer samples to float32. Reads always return whole
// frames; a partial frame from the reader is carried to the next call.
type Source struct {
	r          BufferReader
	name       string
	sampleRate int
	channels   int

	scale  float32
	offset int

	buf     *goaudio.IntBuffer
	pending []int
	eof     bool
}

// New wraps r. Samples are scaled by the signed full scale of bitDepth after
// offset is subtracted (128 for unsigned 8-bit data, otherwise 0).
func New(r BufferReader, name string, format *goaudio.Format, bitDepth, offset int) *Source {
	channels := format.NumChannels
	return &Source{
		r:          r,
		name:       name,
		sampleRate: format.SampleRate,
		channels:   channels,
		scale:      float32(goaudio.IntMaxSignedValue(bitDepth) + 1),
		offset:     offset,
		buf: &goaudio.IntBuffer{
			Data:           make([]int, 4096-4096%channels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels

	for len(s.pending) < want && !s.eof {
		need := max(want-len(s.pending), s.channels)
		if cap(s.buf.Data) < need {
			s.buf.Data = make([]int, need)
		}
		s.buf.Data = s.buf.Data[:need]

		n, err := s.r.PCMBuffer(s.buf)
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%s: %w", s.name, err)
		}
		if n > 0 {
			s.pending = append(s.pending, s.buf.Data[:n]...)
		}
		if n == 0 || err == io.EOF {
			s.eof = true
		}
	}

	n := min(len(s.pending), want)
	n -= n % s.channels
	for i, v := range s.pending[:n] {
		dst[i] = float32(v-s.offset) / s.scale
	}
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]

	if n == 0 && s.eof {
		return 0, io.EOF
	}
	return n, nil
}
