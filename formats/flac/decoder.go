// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audmix/audio"
)

// flacReader is an interface for flac.Stream to allow testing
type flacReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	dec        flacReader
	sampleRate int
	channels   int

	cur *frame.Frame
	pos int // next sample index within cur
	eof bool
	err error // held back until the samples before it are consumed
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return s.dec.Close() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.err != nil {
		return 0, s.err
	}

	frames := len(dst) / s.channels
	n := 0

	for n < frames {
		if s.cur == nil || s.pos >= len(s.cur.Subframes[0].Samples) {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				if err == io.EOF {
					break
				}
				s.err = err
				if n > 0 {
					break
				}
				return 0, err
			}
			continue
		}

		scale := float32(int64(1) << (s.cur.BitsPerSample - 1))
		take := min(frames-n, len(s.cur.Subframes[0].Samples)-s.pos)
		for i := range take {
			for c, sub := range s.cur.Subframes {
				dst[(n+i)*s.channels+c] = float32(sub.Samples[s.pos+i]) / scale
			}
		}
		s.pos += take
		n += take
	}

	if n == 0 && s.eof {
		return 0, io.EOF
	}
	return n * s.channels, nil
}

func (s *source) next() error {
	f, err := s.dec.ParseNext()
	if err == io.EOF {
		s.eof = true
		s.cur = nil
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("flac: %w", err)
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: %d != %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}
	if f.BitsPerSample == 0 || f.BitsPerSample > 32 {
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, f.BitsPerSample)
	}

	s.cur = f
	s.pos = 0
	return nil
}

// Decoder decodes FLAC through github.com/mewkiz/flac.
type Decoder struct{}

// Sniff reports whether header starts with the fLaC stream marker.
func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("fLaC"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	if stream.Info.NChannels == 0 {
		stream.Close()
		return nil, ErrChannelMismatch
	}

	return &source{
		dec:        stream,
		sampleRate: int(stream.Info.SampleRate),
		channels:   int(stream.Info.NChannels),
	}, nil
}
