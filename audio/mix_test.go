// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func s16(vals ...int16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

func f32(vals ...float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

func readS16(b []byte, i int) int16 { return int16(binary.LittleEndian.Uint16(b[2*i:])) }

func readF32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

func TestMixSamples_S16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dst    int16
		src    int16
		volume float32
		want   int16
	}{
		{"half volume full scale", 0, math.MaxInt16, 0.5, 16383},
		{"unity into silence", 0, 12345, 1, 12345},
		{"clamps positive", 30000, 30000, 1, math.MaxInt16},
		{"clamps negative", 0, math.MinInt16, 1, -math.MaxInt16},
		{"zero volume", 0, math.MaxInt16, 0, 0},
		{"cancels", 16383, -16383, 1, 0},
	}

	for _, tt := range tests {
		dst := s16(tt.dst)
		MixSamples(dst, s16(tt.src), FormatS16, tt.volume)
		if got := readS16(dst, 0); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMixSamples_S32(t *testing.T) {
	t.Parallel()

	src := make([]byte, 4)
	binary.LittleEndian.PutUint32(src, math.MaxInt32)
	dst := make([]byte, 4)

	MixSamples(dst, src, FormatS32, 0.5)
	if got := int32(binary.LittleEndian.Uint32(dst)); got != 1073741823 {
		t.Errorf("got %d, want 1073741823", got)
	}
}

func TestMixSamples_F32(t *testing.T) {
	t.Parallel()

	dst := f32(0.25, 0.9, -0.9)
	MixSamples(dst, f32(0.5, 0.5, -0.5), FormatF32, 0.5)

	want := []float32{0.5, 1, -1}
	for i, w := range want {
		if got := readF32(dst, i); got != w {
			t.Errorf("dst[%d] = %v, want %v", i, got, w)
		}
	}
}

// Each call clamps, so the order sources are mixed in is observable.
func TestMixSamples_ClampIsIncremental(t *testing.T) {
	t.Parallel()

	a := f32(0.9)
	MixSamples(a, f32(0.5), FormatF32, 1)
	MixSamples(a, f32(-0.5), FormatF32, 1)

	b := f32(0.9)
	MixSamples(b, f32(-0.5), FormatF32, 1)
	MixSamples(b, f32(0.5), FormatF32, 1)

	if got := readF32(a, 0); math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("clamped first: got %v, want 0.5", got)
	}
	if got := readF32(b, 0); math.Abs(float64(got-0.9)) > 1e-6 {
		t.Errorf("clamped last: got %v, want 0.9", got)
	}
}

func TestMixSamples_OnlyWholeSamples(t *testing.T) {
	t.Parallel()

	dst := []byte{0, 0, 0, 0, 0x7f}
	src := append(s16(12345, 12345), 0x7f)

	MixSamples(dst, src, FormatS16, 1)
	if readS16(dst, 0) != 12345 || readS16(dst, 1) != 12345 {
		t.Errorf("mixed samples = %d %d, want 12345 12345", readS16(dst, 0), readS16(dst, 1))
	}
	if dst[4] != 0x7f {
		t.Errorf("trailing byte = %#x, want untouched 0x7f", dst[4])
	}

	short := s16(0, 0, 0)
	MixSamples(short, s16(16383), FormatS16, 1)
	if readS16(short, 0) != 16383 || readS16(short, 1) != 0 || readS16(short, 2) != 0 {
		t.Errorf("short src mixed past its end: %v", short)
	}
}

func BenchmarkMixSamples_S16(b *testing.B) {
	dst := make([]byte, 4096)
	src := make([]byte, 4096)

	b.ReportAllocs()
	for b.Loop() {
		MixSamples(dst, src, FormatS16, 0.8)
	}
}
