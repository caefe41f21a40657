// SPDX-License-Identifier: EPL-2.0

package device

import (
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
)

// otoDevice plays through an oto context. oto pulls from the reader on its
// own goroutine, which makes it the output path.
type otoDevice struct {
	info *audmix.DeviceInfo
	ctx  *oto.Context

	mu     sync.Mutex
	player *oto.Player
}

func otoFormat(f audio.SampleFormat) (oto.Format, error) {
	switch f {
	case audio.FormatS16:
		return oto.FormatSignedInt16LE, nil
	case audio.FormatF32:
		return oto.FormatFloat32LE, nil
	}
	return 0, ErrUnsupportedFormat
}

func openOto(cfg Config, info *audmix.DeviceInfo) (*otoDevice, error) {
	format, err := otoFormat(info.Format)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   info.SampleRate,
		ChannelCount: info.Channels,
		Format:       format,
		BufferSize:   time.Duration(info.BufferSize) * time.Second / time.Duration(info.SampleRate),
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &otoDevice{info: info, ctx: ctx}, nil
}

func (d *otoDevice) Info() *audmix.DeviceInfo { return d.info }

func (d *otoDevice) Start(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return ErrStarted
	}

	d.player = d.ctx.NewPlayer(r)
	d.player.Play()
	return nil
}

func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
