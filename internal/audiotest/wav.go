// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteSeeker is an in-memory io.WriteSeeker.
type WriteSeeker struct {
	buf []byte
	pos int
}

func (w *WriteSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(w.pos) + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	}
	if pos < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	w.pos = int(pos)
	return pos, nil
}

func (w *WriteSeeker) Bytes() []byte { return w.buf }

// WAV encodes interleaved integer samples as a PCM WAV file.
func WAV(tb testing.TB, sampleRate, channels, bitDepth int, samples []int) []byte {
	tb.Helper()

	var ws WriteSeeker
	enc := wav.NewEncoder(&ws, sampleRate, bitDepth, channels, 1)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("close wav: %v", err)
	}

	return ws.Bytes()
}

// ConstantWAV is a 16-bit WAV holding frames frames of value on every
// channel.
func ConstantWAV(tb testing.TB, sampleRate, channels, frames, value int) []byte {
	tb.Helper()

	samples := make([]int, frames*channels)
	for i := range samples {
		samples[i] = value
	}
	return WAV(tb, sampleRate, channels, 16, samples)
}

// WriteFile stores data under the test's temporary directory and returns
// its path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}
