// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/ik5/audmix/internal/audiotest"
)

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels int
		want     Layout
		name     string
	}{
		{1, LayoutMono, "mono"},
		{2, LayoutStereo, "stereo"},
		{3, LayoutSurround, "FL+FR+FC"},
		{4, LayoutQuad, "FL+FR+BL+BR"},
		{6, Layout5_1, "FL+FR+FC+LFE+SL+SR"},
		{7, Layout6_1, "FL+FR+FC+LFE+BC+SL+SR"},
		{8, Layout7_1, "FL+FR+FC+LFE+BL+BR+SL+SR"},
		{0, 0, "unknown"},
		{9, 0, "unknown"},
	}

	for _, tt := range tests {
		got := DefaultLayout(tt.channels)
		if got != tt.want {
			t.Errorf("DefaultLayout(%d) = %v, want %v", tt.channels, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("DefaultLayout(%d).String() = %q, want %q", tt.channels, got.String(), tt.name)
		}
		if tt.want != 0 && got.Channels() != tt.channels {
			t.Errorf("DefaultLayout(%d).Channels() = %d", tt.channels, got.Channels())
		}
	}
}

func TestLayout_Index(t *testing.T) {
	t.Parallel()

	if got := Layout5_1.index(SpeakerSideLeft); got != 4 {
		t.Errorf("Layout5_1.index(SL) = %d, want 4", got)
	}
	if got := LayoutQuad.index(SpeakerBackRight); got != 3 {
		t.Errorf("LayoutQuad.index(BR) = %d, want 3", got)
	}
}

type layoutSource struct {
	*audiotest.MockSource
	layout Layout
}

func (s layoutSource) Layout() Layout { return s.layout }

func TestSourceLayout(t *testing.T) {
	t.Parallel()

	quad := audiotest.NewSilentSource(48000, 4, 10)
	if got := SourceLayout(quad); got != LayoutQuad {
		t.Errorf("SourceLayout(4ch) = %v, want %v", got, LayoutQuad)
	}

	custom := Layout5_0 &^ SpeakerFrontCenter
	tagged := layoutSource{audiotest.NewSilentSource(48000, 4, 10), custom}
	if got := SourceLayout(tagged); got != custom {
		t.Errorf("SourceLayout(tagged) = %v, want %v", got, custom)
	}

	// Metadata disagreeing with the channel count is ignored.
	wrong := layoutSource{audiotest.NewSilentSource(48000, 4, 10), Layout5_1}
	if got := SourceLayout(wrong); got != LayoutQuad {
		t.Errorf("SourceLayout(mismatched) = %v, want %v", got, LayoutQuad)
	}

	mono := layoutSource{audiotest.NewSilentSource(48000, 1, 10), SpeakerFrontLeft}
	if got := SourceLayout(mono); got != LayoutMono {
		t.Errorf("SourceLayout(mono) = %v, want %v", got, LayoutMono)
	}
}
