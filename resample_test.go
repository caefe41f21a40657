// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/decode"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/stream"
)

func TestResample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		srcRate  int
		channels int
		spec     audio.Spec
		quality  int
	}{
		{"same rate", 48000, 2, audio.Spec{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}, 0},
		{"upsample mono to stereo", 22050, 1, audio.Spec{SampleRate: 44100, Channels: 2, Format: audio.FormatS16}, 0},
		{"downsample to f32", 44100, 2, audio.Spec{SampleRate: 8000, Channels: 1, Format: audio.FormatF32}, 0},
		{"sinc", 44100, 2, audio.Spec{SampleRate: 48000, Channels: 2, Format: audio.FormatS32}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := audiotest.ConstantWAV(t, tt.srcRate, tt.channels, tt.srcRate/10, 1000)
			src := stream.NewPackage(bytes.NewReader(data), 0, int64(len(data)), "in.wav")

			pcm, err := Resample(src, tt.spec, tt.quality)
			if err != nil {
				t.Fatalf("Resample() error = %v", err)
			}
			if len(pcm)%tt.spec.FrameSize() != 0 {
				t.Fatalf("output %d bytes is not whole frames", len(pcm))
			}

			// A tenth of a second, plus the tail the sinc filter drains.
			frames := len(pcm) / tt.spec.FrameSize()
			want := tt.spec.SampleRate / 10
			if frames < want-4 || frames > want+600 {
				t.Errorf("got %d frames, want about %d", frames, want)
			}
		})
	}
}

func TestResample_UnknownFormat(t *testing.T) {
	t.Parallel()

	data := []byte("plain text, not audio")
	src := stream.NewPackage(bytes.NewReader(data), 0, int64(len(data)), "notes.txt")

	_, err := Resample(src, audio.Spec{SampleRate: 8000, Channels: 1, Format: audio.FormatS16}, 0)
	if !errors.Is(err, decode.ErrUnknownFormat) {
		t.Errorf("Resample() error = %v, want ErrUnknownFormat", err)
	}
}
