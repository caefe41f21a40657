// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix/audio"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 44100, 2, []int16{100, 200, 300, 400}); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	data := buf.Bytes()
	if len(data) != headerSize+8 {
		t.Fatalf("size = %d, want %d", len(data), headerSize+8)
	}

	fields := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(data[4:]), 36 + 8},
		{"format tag", uint32(binary.LittleEndian.Uint16(data[20:])), formatPCM},
		{"channels", uint32(binary.LittleEndian.Uint16(data[22:])), 2},
		{"sample rate", binary.LittleEndian.Uint32(data[24:]), 44100},
		{"byte rate", binary.LittleEndian.Uint32(data[28:]), 44100 * 4},
		{"block align", uint32(binary.LittleEndian.Uint16(data[32:])), 4},
		{"bits", uint32(binary.LittleEndian.Uint16(data[34:])), 16},
		{"data size", binary.LittleEndian.Uint32(data[40:]), 8},
	}
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %d, want %d", f.name, f.got, f.want)
		}
	}
}

func TestWriteWAV16_Empty(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 1, nil); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	if buf.Len() != headerSize {
		t.Errorf("size = %d, want header only", buf.Len())
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "render.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	spec := audio.Spec{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}
	w, err := NewWriter(f, spec)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	frame := make([]byte, spec.FrameSize())
	spec.Format.Encode(frame, []float32{0.5, -0.5})
	for range 10 {
		if _, err := w.Write(frame); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if w.Size() != 40 {
		t.Errorf("Size() = %d, want 40", w.Size())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := w.Write(frame); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Write() after Close error = %v, want %v", err, ErrWriterClosed)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got := readAll(t, src, 64)
	if len(got) != 20 {
		t.Fatalf("read %d samples, want 20", len(got))
	}
	if got[0] != 16383.0/32768 || got[1] != -16383.0/32768 {
		t.Errorf("first frame = %v %v", got[0], got[1])
	}
}

func TestNewWriter_InvalidSpec(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := NewWriter(f, audio.Spec{SampleRate: 48000, Channels: 2}); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("NewWriter() error = %v, want %v", err, audio.ErrUnsupportedFormat)
	}
}
