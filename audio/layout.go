// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math/bits"
	"strings"
)

// Layout is a speaker arrangement as a bit set. Interleaved channels appear
// in ascending bit order. The zero Layout means "unknown".
type Layout uint32

const (
	SpeakerFrontLeft Layout = 1 << iota
	SpeakerFrontRight
	SpeakerFrontCenter
	SpeakerLowFrequency
	SpeakerBackLeft
	SpeakerBackRight
	SpeakerBackCenter
	SpeakerSideLeft
	SpeakerSideRight
)

const (
	LayoutMono     = SpeakerFrontCenter
	LayoutStereo   = SpeakerFrontLeft | SpeakerFrontRight
	LayoutSurround = LayoutStereo | SpeakerFrontCenter
	LayoutQuad     = LayoutStereo | SpeakerBackLeft | SpeakerBackRight
	Layout5_0      = LayoutSurround | SpeakerSideLeft | SpeakerSideRight
	Layout5_1      = Layout5_0 | SpeakerLowFrequency
	Layout6_1      = Layout5_1 | SpeakerBackCenter
	Layout7_1      = Layout5_1 | SpeakerBackLeft | SpeakerBackRight
)

// DefaultLayout infers a layout from a bare channel count. Counts without a
// conventional arrangement return the unknown layout.
func DefaultLayout(channels int) Layout {
	switch channels {
	case 1:
		return LayoutMono
	case 2:
		return LayoutStereo
	case 3:
		return LayoutSurround
	case 4:
		return LayoutQuad
	case 5:
		return Layout5_0
	case 6:
		return Layout5_1
	case 7:
		return Layout6_1
	case 8:
		return Layout7_1
	}
	return 0
}

// SourceLayout resolves the layout of src. Mono always maps to LayoutMono;
// sources without layout metadata (or with metadata that disagrees with
// their channel count) fall back to DefaultLayout.
func SourceLayout(src Source) Layout {
	if src.Channels() == 1 {
		return LayoutMono
	}
	if ls, ok := src.(LayoutSource); ok {
		if l := ls.Layout(); l != 0 && l.Channels() == src.Channels() {
			return l
		}
	}
	return DefaultLayout(src.Channels())
}

func (l Layout) Channels() int { return bits.OnesCount32(uint32(l)) }

func (l Layout) Has(s Layout) bool { return l&s == s }

// index returns the interleaved position of speaker s within l.
func (l Layout) index(s Layout) int {
	return bits.OnesCount32(uint32(l & (s - 1)))
}

var speakerNames = []string{"FL", "FR", "FC", "LFE", "BL", "BR", "BC", "SL", "SR"}

func (l Layout) String() string {
	switch l {
	case 0:
		return "unknown"
	case LayoutMono:
		return "mono"
	case LayoutStereo:
		return "stereo"
	}

	var names []string
	for i, name := range speakerNames {
		if l.Has(1 << i) {
			names = append(names, name)
		}
	}
	return strings.Join(names, "+")
}
