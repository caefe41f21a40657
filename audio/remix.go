// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

const minusThreeDB = float32(math.Sqrt2 / 2)

// Remixer converts interleaved frames between two channel layouts using a
// fixed coefficient matrix.
type Remixer struct {
	in, out     int
	matrix      [][]float32 // [out][in]
	passthrough bool
}

// NewRemixer builds a remixer from src to dst. Unknown layouts are passed as
// a zero Layout together with their channel count.
func NewRemixer(src Layout, srcChannels int, dst Layout, dstChannels int) *Remixer {
	m := &Remixer{in: srcChannels, out: dstChannels}

	if src == dst && srcChannels == dstChannels {
		m.passthrough = true
		return m
	}

	m.matrix = make([][]float32, dstChannels)
	for i := range m.matrix {
		m.matrix[i] = make([]float32, srcChannels)
	}

	switch {
	case dstChannels == 1:
		// Average everything down to one channel.
		for c := range srcChannels {
			m.matrix[0][c] = 1 / float32(srcChannels)
		}
	case srcChannels == 1:
		m.fromMono(dst)
	case src == 0 || dst == 0:
		for c := range min(srcChannels, dstChannels) {
			m.matrix[c][c] = 1
		}
	default:
		m.fold(src, dst)
	}

	m.normalize()
	return m
}

// fromMono treats mono as a center speaker: kept as is when dst has one,
// otherwise spread over the front pair at -3dB.
func (m *Remixer) fromMono(dst Layout) {
	if dst.Has(SpeakerFrontCenter) {
		m.matrix[dst.index(SpeakerFrontCenter)][0] = 1
		return
	}
	if dst.Has(LayoutStereo) {
		m.matrix[dst.index(SpeakerFrontLeft)][0] = minusThreeDB
		m.matrix[dst.index(SpeakerFrontRight)][0] = minusThreeDB
		return
	}
	for c := range m.out {
		m.matrix[c][0] = 1
	}
}

// fold routes every source speaker to itself when dst has it, otherwise to
// the nearest speakers dst does have, attenuated by 3dB.
func (m *Remixer) fold(src, dst Layout) {
	add := func(to Layout, from Layout, gain float32) bool {
		if !dst.Has(to) {
			return false
		}
		m.matrix[dst.index(to)][src.index(from)] += gain
		return true
	}
	front := func(from Layout, side Layout) {
		if !add(side, from, minusThreeDB) {
			add(SpeakerFrontCenter, from, minusThreeDB)
		}
	}

	for i := range speakerNames {
		s := Layout(1 << i)
		if !src.Has(s) || add(s, s, 1) {
			continue
		}

		switch s {
		case SpeakerFrontCenter:
			if dst.Has(LayoutStereo) {
				add(SpeakerFrontLeft, s, minusThreeDB)
				add(SpeakerFrontRight, s, minusThreeDB)
			}
		case SpeakerFrontLeft:
			add(SpeakerFrontCenter, s, minusThreeDB)
		case SpeakerFrontRight:
			add(SpeakerFrontCenter, s, minusThreeDB)
		case SpeakerBackLeft:
			if !add(SpeakerSideLeft, s, 1) {
				front(s, SpeakerFrontLeft)
			}
		case SpeakerBackRight:
			if !add(SpeakerSideRight, s, 1) {
				front(s, SpeakerFrontRight)
			}
		case SpeakerSideLeft:
			if !add(SpeakerBackLeft, s, 1) {
				front(s, SpeakerFrontLeft)
			}
		case SpeakerSideRight:
			if !add(SpeakerBackRight, s, 1) {
				front(s, SpeakerFrontRight)
			}
		case SpeakerBackCenter:
			switch {
			case dst.Has(SpeakerBackLeft | SpeakerBackRight):
				add(SpeakerBackLeft, s, minusThreeDB)
				add(SpeakerBackRight, s, minusThreeDB)
			case dst.Has(SpeakerSideLeft | SpeakerSideRight):
				add(SpeakerSideLeft, s, minusThreeDB)
				add(SpeakerSideRight, s, minusThreeDB)
			default:
				front(s, SpeakerFrontLeft)
				front(s, SpeakerFrontRight)
			}
		}
		// LFE is dropped when dst has no LFE speaker.
	}
}

// normalize scales rows whose gains sum above unity so a full-scale input
// cannot clip.
func (m *Remixer) normalize() {
	for _, row := range m.matrix {
		var sum float32
		for _, g := range row {
			sum += g
		}
		if sum <= 1 {
			continue
		}
		for i := range row {
			row[i] /= sum
		}
	}
}

func (m *Remixer) Channels() (in, out int) { return m.in, m.out }

func (m *Remixer) Passthrough() bool { return m.passthrough }

// OutputSize is the number of samples Process writes for n input samples.
func (m *Remixer) OutputSize(n int) int { return n / m.in * m.out }

// Process remixes the whole frames in src into dst and returns the number
// of samples written. dst must hold OutputSize(len(src)) samples.
func (m *Remixer) Process(dst, src []float32) (int, error) {
	if len(src)%m.in != 0 {
		return 0, ErrInvalidDstSize
	}
	frames := len(src) / m.in

	if m.passthrough {
		return copy(dst, src), nil
	}

	switch {
	case m.in == 2 && m.out == 1:
		for f := range frames {
			idx := f << 1
			dst[f] = (src[idx] + src[idx+1]) * 0.5
		}
	case m.in == 1:
		for f := range frames {
			base := f * m.out
			for c := range m.out {
				dst[base+c] = src[f] * m.matrix[c][0]
			}
		}
	default:
		for f := range frames {
			in := src[f*m.in : f*m.in+m.in]
			out := dst[f*m.out : f*m.out+m.out]
			for c, row := range m.matrix {
				var sum float32
				for k, g := range row {
					sum += in[k] * g
				}
				out[c] = sum
			}
		}
	}

	return frames * m.out, nil
}
