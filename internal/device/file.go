// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
)

// fileDevice records the output into a WAV file in real time, pulling one
// buffer per device period like a sound card would.
type fileDevice struct {
	info   *audmix.DeviceInfo
	log    *slog.Logger
	f      *os.File
	w      *wav.Writer
	period time.Duration
	buf    []byte

	mu   sync.Mutex
	r    io.Reader
	stop chan struct{}
	done chan struct{}
}

func openFile(cfg Config, info *audmix.DeviceInfo) (*fileDevice, error) {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, err
	}

	w, err := wav.NewWriter(f, info.Spec())
	if err != nil {
		f.Close()
		return nil, err
	}

	return &fileDevice{
		info:   info,
		log:    cfg.Logger,
		f:      f,
		w:      w,
		period: time.Duration(info.BufferSize) * time.Second / time.Duration(info.SampleRate),
		buf:    make([]byte, info.Spec().BytesFor(info.BufferSize)),
	}, nil
}

func (d *fileDevice) Info() *audmix.DeviceInfo { return d.info }

// pump moves one device buffer from the reader into the file.
func (d *fileDevice) pump() error {
	n, err := io.ReadFull(d.r, d.buf)
	if n > 0 {
		if _, werr := d.w.Write(d.buf[:n]); werr != nil {
			return werr
		}
	}
	return err
}

func (d *fileDevice) Start(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop != nil {
		return ErrStarted
	}

	d.r = r
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go d.run()
	return nil
}

func (d *fileDevice) run() {
	defer close(d.done)

	tick := time.NewTicker(d.period)
	defer tick.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-tick.C:
			if err := d.pump(); err != nil {
				if !errors.Is(err, io.EOF) {
					d.log.Error("recording stopped", "error", err)
				}
				return
			}
		}
	}
}

// Close stops recording and finalizes the WAV header.
func (d *fileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return nil
	}

	if d.stop != nil {
		close(d.stop)
		<-d.done
	}

	err := errors.Join(d.w.Close(), d.f.Close())
	d.f = nil
	return err
}
