// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
)

// paDevice plays through the default PortAudio output stream. PortAudio
// calls back on its own thread with a native buffer to fill.
type paDevice struct {
	info *audmix.DeviceInfo

	mu      sync.Mutex
	stream  *portaudio.Stream
	r       io.Reader
	scratch []byte
	closed  bool
}

func openPortAudio(_ Config, info *audmix.DeviceInfo) (*paDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &paDevice{info: info}, nil
}

func (d *paDevice) Info() *audmix.DeviceInfo { return d.info }

// fill reads n samples worth of bytes from the reader; a short read leaves
// silence.
func (d *paDevice) fill(n int) []byte {
	size := n * d.info.Format.Size()
	if cap(d.scratch) < size {
		d.scratch = make([]byte, size)
	}
	p := d.scratch[:size]

	m, _ := io.ReadFull(d.r, p)
	clear(p[m:])
	return p
}

func (d *paDevice) callback() any {
	switch d.info.Format {
	case audio.FormatS16:
		return func(out []int16) {
			p := d.fill(len(out))
			for i := range out {
				out[i] = int16(binary.LittleEndian.Uint16(p[2*i:]))
			}
		}
	case audio.FormatS32:
		return func(out []int32) {
			p := d.fill(len(out))
			for i := range out {
				out[i] = int32(binary.LittleEndian.Uint32(p[4*i:]))
			}
		}
	default:
		return func(out []float32) {
			p := d.fill(len(out))
			for i := range out {
				out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
			}
		}
	}
}

func (d *paDevice) Start(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		return ErrStarted
	}
	d.r = r

	stream, err := portaudio.OpenDefaultStream(0, d.info.Channels, float64(d.info.SampleRate), d.info.BufferSize, d.callback())
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	d.stream = stream
	return nil
}

func (d *paDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.stream != nil {
		d.stream.Stop()
		d.stream.Close()
		d.stream = nil
	}
	return portaudio.Terminate()
}
