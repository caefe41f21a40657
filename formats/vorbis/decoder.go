// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audmix/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// channelOrder maps interleaved output positions (ascending speaker bits,
// see audio.Layout) to Vorbis stream positions. Comments give the output
// order; the Vorbis order of each count is
//
//	3: L C R
//	5: L C R RL RR
//	6: L C R RL RR LFE
//	7: L C R SL SR RC LFE
//	8: L C R SL SR RL RR LFE
//
// 5.0 and 5.1 rears land on the side speakers of audio.Layout5_0/5_1.
var channelOrder = map[int][]int{
	3: {0, 2, 1},                // FL FR FC
	5: {0, 2, 1, 3, 4},          // FL FR FC SL SR
	6: {0, 2, 1, 5, 3, 4},       // FL FR FC LFE SL SR
	7: {0, 2, 1, 6, 5, 3, 4},    // FL FR FC LFE BC SL SR
	8: {0, 2, 1, 7, 5, 6, 3, 4}, // FL FR FC LFE BL BR SL SR
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	order      []int
	frameBuf   []float32 // buffer for reading frames from decoder
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if s.order == nil {
		n, err := s.dec.Read(dst[:want])
		return s.result(n, err)
	}

	if cap(s.frameBuf) < want {
		s.frameBuf = make([]float32, want)
	}
	s.frameBuf = s.frameBuf[:want]

	// Read returns interleaved values, always whole frames
	n, err := s.dec.Read(s.frameBuf)
	for f := 0; f < n; f += s.channels {
		for c, from := range s.order {
			dst[f+c] = s.frameBuf[f+from]
		}
	}

	return s.result(n, err)
}

func (s *source) result(n int, err error) (int, error) {
	if err == io.EOF {
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("vorbis: %w", err)
	}
	return n, nil
}

type Decoder struct{}

// Sniff reports whether header starts an Ogg page.
func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec oggReader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		order:      channelOrder[dec.Channels()],
		frameBuf:   make([]float32, 4096),
	}
}
