// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// mockMP3Reader serves PCM bytes, at most step per Read.
type mockMP3Reader struct {
	data       []byte
	step       int
	sampleRate int
	err        error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if len(m.data) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	n := copy(buf[:min(len(buf), m.step)], m.data)
	m.data = m.data[n:]
	return n, nil
}

func pcm16(vals ...int16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("not an mp3 file"))); err == nil {
		t.Error("Decode() of garbage returned nil error")
	}
	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() of empty input returned nil error")
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	s := &source{
		dec:        &mockMP3Reader{data: pcm16(16384, -16384, 0, math.MaxInt16), step: 1 << 10, sampleRate: 44100},
		sampleRate: 44100,
	}

	if s.Channels() != 2 || s.SampleRate() != 44100 {
		t.Fatalf("format = %d Hz %d ch", s.SampleRate(), s.Channels())
	}

	buf := make([]float32, 8)
	n, err := s.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	want := []float32{0.5, -0.5, 0, 32767.0 / 32768}
	if n != len(want) {
		t.Fatalf("n = %d, want %d", n, len(want))
	}
	for i, w := range want {
		if buf[i] != w {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], w)
		}
	}

	if n, err := s.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v, want 0, EOF", n, err)
	}
}

// Odd-sized reads from the decoder must not split a frame across calls.
func TestSource_ReadSamples_PartialFrames(t *testing.T) {
	t.Parallel()

	vals := make([]int16, 2*50)
	for i := range vals {
		vals[i] = int16(i * 100)
	}
	s := &source{dec: &mockMP3Reader{data: pcm16(vals...), step: 7}, sampleRate: 44100}

	var got []float32
	buf := make([]float32, 6)
	for {
		n, err := s.ReadSamples(buf)
		if n%2 != 0 {
			t.Fatalf("ReadSamples() n = %d, not whole frames", n)
		}
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(vals) {
		t.Fatalf("read %d samples, want %d", len(got), len(vals))
	}
	for i, v := range vals {
		if got[i] != float32(v)/32768 {
			t.Fatalf("sample[%d] = %v, want %v", i, got[i], float32(v)/32768)
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	s := &source{dec: &mockMP3Reader{err: boom}, sampleRate: 44100}

	if _, err := s.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestDecoder_Sniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header []byte
		want   bool
	}{
		{[]byte("ID3\x04\x00"), true},
		{[]byte{0xFF, 0xFB, 0x90, 0x00}, true},
		{[]byte{0xFF, 0x00}, false},
		{[]byte("OggS"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := (Decoder{}).Sniff(tt.header); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
