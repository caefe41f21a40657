// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"
)

// MixSamples accumulates src into dst, both encoded as f, scaling src by
// volume. Each sample is normalized to full scale, added, clamped to [-1, 1]
// and written back truncated toward zero. Clamping happens on every call, so
// mixing several sources is an incremental fold whose result depends on the
// order sources are applied in.
//
// Only the whole samples common to dst and src are touched.
func MixSamples(dst, src []byte, f SampleFormat, volume float32) {
	v := float64(volume)
	n := min(len(dst), len(src))

	switch f {
	case FormatS16:
		const scale = float32(math.MaxInt16)
		for i := 0; i+2 <= n; i += 2 {
			s := float64(float32(int16(binary.LittleEndian.Uint16(src[i:]))) / scale)
			d := float64(float32(int16(binary.LittleEndian.Uint16(dst[i:]))) / scale)
			d = clamp64(d + s*v)
			binary.LittleEndian.PutUint16(dst[i:], uint16(int16(d*math.MaxInt16)))
		}
	case FormatS32:
		const scale = float32(math.MaxInt32)
		for i := 0; i+4 <= n; i += 4 {
			s := float64(float32(int32(binary.LittleEndian.Uint32(src[i:]))) / scale)
			d := float64(float32(int32(binary.LittleEndian.Uint32(dst[i:]))) / scale)
			d = clamp64(d + s*v)
			binary.LittleEndian.PutUint32(dst[i:], uint32(int32(d*math.MaxInt32)))
		}
	case FormatF32:
		for i := 0; i+4 <= n; i += 4 {
			s := float64(math.Float32frombits(binary.LittleEndian.Uint32(src[i:])))
			d := float64(math.Float32frombits(binary.LittleEndian.Uint32(dst[i:])))
			d = clamp64(d + s*v)
			binary.LittleEndian.PutUint32(dst[i:], math.Float32bits(float32(d)))
		}
	}
}

func clamp64(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
