// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
)

const (
	headerSize  = 44
	formatFloat = 3
)

// header builds a canonical 44 byte RIFF/WAVE header for dataSize bytes of
// samples in format f.
func header(sampleRate, channels int, f audio.SampleFormat, dataSize uint32) []byte {
	bitsPerSample := uint16(f.Size() * 8)
	blockAlign := uint16(channels) * uint16(f.Size())
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	tag := uint16(formatPCM)
	if f == audio.FormatF32 {
		tag = formatFloat
	}

	h := make([]byte, headerSize)

	// RIFF header (12 bytes)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], tag)
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	return h
}

// WriteWAV16 writes interleaved 16-bit PCM at sampleRate in one pass.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if _, err := w.Write(header(sampleRate, channels, audio.FormatS16, uint32(len(samples)*2))); err != nil {
		return fmt.Errorf("%w", err)
	}

	// Write 8KB at a time
	const chunkSize = 4096
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// Writer streams already encoded device samples into a WAV container. The
// header is written up front and its sizes are patched on Close.
type Writer struct {
	w          io.WriteSeeker
	sampleRate int
	channels   int
	format     audio.SampleFormat
	size       uint32
	closed     bool
}

func NewWriter(w io.WriteSeeker, spec audio.Spec) (*Writer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if _, err := w.Write(header(spec.SampleRate, spec.Channels, spec.Format, 0)); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &Writer{
		w:          w,
		sampleRate: spec.SampleRate,
		channels:   spec.Channels,
		format:     spec.Format,
	}, nil
}

// Write appends raw samples in the writer's format.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}

	n, err := w.w.Write(p)
	w.size += uint32(n)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// Size is the number of sample bytes written so far.
func (w *Writer) Size() int { return int(w.size) }

// Close rewrites the header with the final sizes. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Write(header(w.sampleRate, w.channels, w.format, w.size)); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
