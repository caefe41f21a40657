// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/stream"
)

var stereo48k = audio.Spec{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}

// trackedStream counts Close calls on a packaged stream.
type trackedStream struct {
	*stream.Package
	closed int
}

func (s *trackedStream) Close() error {
	s.closed++
	return nil
}

func newStream(data []byte, name string) *trackedStream {
	return &trackedStream{Package: stream.NewPackage(bytes.NewReader(data), 0, int64(len(data)), name)}
}

// mockDecoder recognises streams starting with "MOCK" and yields sources
// built by newSource, one per Decode call.
type mockDecoder struct {
	newSource func(call int) audio.Source
	calls     int
}

func (d *mockDecoder) Sniff(header []byte) bool { return bytes.HasPrefix(header, []byte("MOCK")) }

func (d *mockDecoder) Decode(io.Reader) (audio.Source, error) {
	d.calls++
	return d.newSource(d.calls), nil
}

func mockRegistry(d *mockDecoder) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("mock", d, "mock")
	return reg
}

type stallSource struct{}

func (stallSource) SampleRate() int                    { return 48000 }
func (stallSource) Channels() int                      { return 2 }
func (stallSource) ReadSamples([]float32) (int, error) { return 0, nil }
func (stallSource) Close() error                       { return nil }

// collect pumps g until it fails or calls reaches limit, returning the s16
// samples produced.
func collect(t *testing.T, g *Graph, limit int) ([]int16, error) {
	t.Helper()

	var (
		buf Buffer
		out []int16
	)
	for range limit {
		if err := g.Next(&buf); err != nil {
			return out, err
		}
		p := buf.Unread()
		for i := 0; i+1 < len(p); i += 2 {
			out = append(out, int16(binary.LittleEndian.Uint16(p[i:])))
		}
		buf.Consume(len(p))
	}
	return out, nil
}

func TestGraph_PlaysToEnd(t *testing.T) {
	t.Parallel()

	data := audiotest.ConstantWAV(t, 48000, 2, 100, 16384)
	src := newStream(data, "bgm.wav")

	g, err := Open(src, stereo48k, Options{FrameSize: 32})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	info := g.Info()
	if info.Format != "wav" || info.SampleRate != 48000 || info.Channels != 2 {
		t.Errorf("Info() = %+v", info)
	}

	out, err := collect(t, g, 100)
	if !errors.Is(err, ErrNoMoreContent) {
		t.Fatalf("collect() error = %v, want ErrNoMoreContent", err)
	}
	if len(out) != 200 {
		t.Fatalf("got %d samples, want 200", len(out))
	}
	for i, v := range out {
		if v != 16383 {
			t.Fatalf("sample %d = %d, want 16383", i, v)
		}
	}

	var buf Buffer
	if err := g.Next(&buf); !errors.Is(err, ErrNoMoreContent) {
		t.Errorf("Next() after end = %v, want ErrNoMoreContent", err)
	}

	if err := g.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	g.Close()
	if src.closed != 1 {
		t.Errorf("stream closed %d times, want 1", src.closed)
	}
}

func TestGraph_LoopIsPeriodic(t *testing.T) {
	t.Parallel()

	const frames = 100
	samples := make([]int, frames)
	for i := range samples {
		samples[i] = i * 256
	}
	data := audiotest.WAV(t, 48000, 1, 16, samples)

	spec := audio.Spec{SampleRate: 48000, Channels: 1, Format: audio.FormatS16}
	g, err := Open(newStream(data, "loop.wav"), spec, Options{FrameSize: 64, Loop: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer g.Close()

	out, err := collect(t, g, 20)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	if len(out) < 3*frames {
		t.Fatalf("got %d samples, want at least %d", len(out), 3*frames)
	}
	for i := frames; i < len(out); i++ {
		if out[i] != out[i%frames] {
			t.Fatalf("sample %d = %d, want %d", i, out[i], out[i%frames])
		}
	}
}

func TestGraph_EmptyLoopEnds(t *testing.T) {
	t.Parallel()

	dec := &mockDecoder{newSource: func(int) audio.Source {
		return audiotest.NewSilentSource(48000, 2, 0)
	}}
	g, err := Open(newStream([]byte("MOCK"), "empty"), stereo48k, Options{Loop: true, Registry: mockRegistry(dec)})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer g.Close()

	out, err := collect(t, g, 10)
	if !errors.Is(err, ErrNoMoreContent) {
		t.Fatalf("collect() error = %v, want ErrNoMoreContent", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d samples from an empty asset", len(out))
	}
	if dec.calls != 1 {
		t.Errorf("decoder opened %d times, want 1", dec.calls)
	}
}

func TestGraph_FormatChangedOnRewind(t *testing.T) {
	t.Parallel()

	dec := &mockDecoder{newSource: func(call int) audio.Source {
		if call == 1 {
			return audiotest.NewConstantSource(48000, 2, 10, 0.5)
		}
		return audiotest.NewConstantSource(44100, 2, 10, 0.5)
	}}
	g, err := Open(newStream([]byte("MOCK"), "changing"), stereo48k, Options{Loop: true, Registry: mockRegistry(dec)})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer g.Close()

	if _, err := collect(t, g, 10); !errors.Is(err, ErrFormatChanged) {
		t.Errorf("collect() error = %v, want ErrFormatChanged", err)
	}
}

func TestGraph_Stalled(t *testing.T) {
	t.Parallel()

	dec := &mockDecoder{newSource: func(int) audio.Source { return stallSource{} }}
	g, err := Open(newStream([]byte("MOCK"), "stall"), stereo48k, Options{Registry: mockRegistry(dec)})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer g.Close()

	var buf Buffer
	if err := g.Next(&buf); !errors.Is(err, ErrStalled) {
		t.Errorf("Next() error = %v, want ErrStalled", err)
	}
}

func TestGraph_ExtensionFallback(t *testing.T) {
	t.Parallel()

	dec := &mockDecoder{newSource: func(int) audio.Source {
		return audiotest.NewConstantSource(48000, 2, 4, 0)
	}}
	g, err := Open(newStream([]byte("no magic here"), "sfx/click.MOCK"), stereo48k, Options{Registry: mockRegistry(dec)})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer g.Close()

	if g.Info().Format != "mock" {
		t.Errorf("Info().Format = %q, want mock", g.Info().Format)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		file string
		spec audio.Spec
		want error
	}{
		{"unknown container", []byte("garbage data"), "x.bin", stereo48k, ErrUnknownFormat},
		{"empty stream", nil, "x.bin", stereo48k, ErrUnknownFormat},
		{"bad spec", []byte("RIFF"), "x.wav", audio.Spec{}, nil},
		{"truncated wav", []byte("RIFF\x00\x00\x00\x00WAVE"), "x.wav", stereo48k, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newStream(tt.data, tt.file)
			g, err := Open(src, tt.spec, Options{})
			if err == nil {
				g.Close()
				t.Fatal("Open() returned nil error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
			if src.closed != 1 {
				t.Errorf("stream closed %d times, want 1", src.closed)
			}
		})
	}
}

func TestGraph_ConvertsRateAndChannels(t *testing.T) {
	t.Parallel()

	data := audiotest.ConstantWAV(t, 24000, 1, 2400, 8192)

	for _, quality := range []int{0, 4} {
		g, err := Open(newStream(data, "voice.wav"), stereo48k, Options{Quality: quality})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}

		out, err := collect(t, g, 1000)
		g.Close()
		if !errors.Is(err, ErrNoMoreContent) {
			t.Fatalf("quality %d: collect() error = %v", quality, err)
		}

		frames := len(out) / 2
		if frames < 4700 || frames > 5400 {
			t.Errorf("quality %d: %d frames, want about 4800", quality, frames)
		}
		for i := 0; i+1 < len(out); i += 2 {
			if out[i] != out[i+1] {
				t.Fatalf("quality %d: frame %d is not duplicated: %d %d", quality, i/2, out[i], out[i+1])
			}
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	want := []string{"wav", "ogg", "flac", "aiff", "mp3"}
	got := DefaultRegistry().Formats()
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	tests := []struct {
		header string
		want   string
	}{
		{"RIFF\x24\x00\x00\x00WAVE", "wav"},
		{"OggS\x00\x02", "ogg"},
		{"fLaC\x00\x00", "flac"},
		{"FORM\x00\x00\x00\x00AIFF", "aiff"},
		{"ID3\x04\x00", "mp3"},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		format, _, ok := reg.Detect([]byte(tt.header))
		if !ok || format != tt.want {
			t.Errorf("Detect(%q) = %q, %v, want %q", tt.header, format, ok, tt.want)
		}
	}
}

func BenchmarkGraph_Next(b *testing.B) {
	data := audiotest.ConstantWAV(b, 44100, 2, 44100, 1000)
	spec := stereo48k

	var buf Buffer
	for b.Loop() {
		g, err := Open(newStream(data, "bench.wav"), spec, Options{})
		if err != nil {
			b.Fatal(err)
		}
		for g.Next(&buf) == nil {
		}
		g.Close()
	}
}
