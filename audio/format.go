// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/ik5/audmix/utils"
)

// SampleFormat is a device sample encoding. All formats are little-endian
// interleaved PCM.
type SampleFormat int

const (
	FormatS16 SampleFormat = iota + 1
	FormatS32
	FormatF32
)

// Size is the width of one sample in bytes.
func (f SampleFormat) Size() int {
	switch f {
	case FormatS16:
		return 2
	case FormatS32, FormatF32:
		return 4
	}
	return 0
}

// Max is the full-scale value samples are normalized against when mixing.
func (f SampleFormat) Max() float32 {
	switch f {
	case FormatS16:
		return math.MaxInt16
	case FormatS32:
		return math.MaxInt32
	}
	return 1
}

func (f SampleFormat) Valid() bool { return f.Size() != 0 }

func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// ParseSampleFormat accepts the names produced by String.
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(s) {
	case "s16":
		return FormatS16, nil
	case "s32":
		return FormatS32, nil
	case "f32", "float":
		return FormatF32, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// Encode writes src as samples of format f into dst and returns the number
// of bytes written. dst must hold len(src)*f.Size() bytes.
func (f SampleFormat) Encode(dst []byte, src []float32) int {
	switch f {
	case FormatS16:
		for i, x := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(utils.Float32ToInt16(x)))
		}
	case FormatS32:
		for i, x := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], uint32(utils.Float32ToInt32(x)))
		}
	case FormatF32:
		for i, x := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(x))
		}
	default:
		return 0
	}
	return len(src) * f.Size()
}

// Spec is the fixed output format a decode graph converts into.
type Spec struct {
	SampleRate int
	Channels   int
	Format     SampleFormat
}

// FrameSize is the number of bytes in one interleaved frame.
func (s Spec) FrameSize() int { return s.Channels * s.Format.Size() }

// BytesFor returns the buffer size holding frames frames.
func (s Spec) BytesFor(frames int) int { return frames * s.FrameSize() }

func (s Spec) Validate() error {
	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if s.Channels <= 0 {
		return ErrInvalidChannelCount
	}
	if !s.Format.Valid() {
		return ErrUnsupportedFormat
	}
	return nil
}
