// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/decode"
	"github.com/ik5/audmix/stream"
)

// DeviceInfo describes the negotiated output device.
type DeviceInfo struct {
	Channels   int
	SampleRate int
	Format     audio.SampleFormat
	// BufferSize is the device callback granularity in frames.
	BufferSize int
}

// Spec is the sample layout the device expects.
func (d DeviceInfo) Spec() audio.Spec {
	return audio.Spec{SampleRate: d.SampleRate, Channels: d.Channels, Format: d.Format}
}

// System mixes MaxChannels playback channels into device buffers.
//
// Play, Reset, SetVolume and Close are control calls; CopyMixedSamples,
// Read and ChannelSamples are called from the output path, typically a
// device callback. Both may run concurrently.
type System struct {
	// mu guards the enabled flags, graphs and volumes and is held for a whole
	// output pass.
	mu sync.Mutex
	// ctl serializes control calls.
	ctl sync.Mutex

	channels [MaxChannels]channel
	spec     audio.Spec
	noop     bool
	closed   bool

	log       *slog.Logger
	frameSize int
	quality   int
	registry  *audio.Registry
}

// NewSystem creates a mixer for the device described by info. A nil info
// gives a system on which every call succeeds and all output is silence.
func NewSystem(info *DeviceInfo, opts ...Option) (*System, error) {
	s := &System{
		noop: info == nil,
		log:  slog.Default().With("component", "audmix"),
	}
	for i := range s.channels {
		s.channels[i] = channel{id: ChannelID(i), volume: 1}
	}

	if info != nil {
		s.spec = info.Spec()
		if err := s.spec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDevice, err)
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = decode.DefaultRegistry()
	}

	return s, nil
}

// Spec is the device sample layout; zero on a no-op system.
func (s *System) Spec() audio.Spec { return s.spec }

// PlayFile starts playing the file at path on channel id, replacing what
// the channel was playing. An asset that cannot be opened or decoded leaves
// the channel silent and is only logged.
func (s *System) PlayFile(id ChannelID, path string, loop bool) error {
	return s.play(id, loop, func() (stream.Source, error) {
		return stream.Open(path)
	}, path)
}

// PlayPackaged is PlayFile for an asset stored inside an archive.
func (s *System) PlayPackaged(id ChannelID, pkg *stream.Package, loop bool) error {
	if pkg == nil {
		return ErrNoAsset
	}
	return s.play(id, loop, func() (stream.Source, error) {
		return pkg, nil
	}, pkg.Name())
}

func (s *System) play(id ChannelID, loop bool, open func() (stream.Source, error), asset string) error {
	if !id.valid() {
		return fmt.Errorf("%d: %w", id, ErrInvalidChannel)
	}
	if s.noop {
		return nil
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.closed {
		return ErrClosed
	}

	ch := &s.channels[id]
	s.reset(ch)

	log := s.log.With("channel", id, "asset", asset)

	src, err := open()
	if err != nil {
		log.Warn("cannot open asset", "error", err)
		return nil
	}

	g, err := decode.Open(src, s.spec, decode.Options{
		FrameSize: s.frameSize,
		Quality:   s.quality,
		Loop:      loop,
		Registry:  s.registry,
		Logger:    log,
	})
	if err != nil {
		log.Warn("cannot decode asset", "error", err)
		return nil
	}

	// The channel is disabled, so the output path leaves its buffer alone.
	ch.buf.Grow(g.MaxChunk())
	if err := g.Next(&ch.buf); err != nil {
		if errors.Is(err, decode.ErrNoMoreContent) {
			log.Debug("asset is empty")
		} else {
			log.Warn("cannot decode asset", "error", err)
		}
		ch.buf.Reset()
		g.Close()
		return nil
	}

	info := g.Info()
	ch.playback = uuid.New()
	ch.asset = asset
	ch.loop = loop

	s.mu.Lock()
	ch.graph = g
	ch.enabled = true
	s.mu.Unlock()

	log.Debug("playing",
		"playback", ch.playback,
		"format", info.Format,
		"rate", info.SampleRate,
		"channels", info.Channels,
		"loop", loop,
	)

	return nil
}

// reset stops ch: enabled is cleared under mu before the graph is closed.
// Called with ctl held.
func (s *System) reset(ch *channel) {
	s.mu.Lock()
	g := s.disable(ch)
	s.mu.Unlock()

	if g != nil {
		g.Close()
		s.log.Debug("playback stopped", "channel", ch.id, "asset", ch.asset, "playback", ch.playback)
	}
}

// Reset stops channel id.
func (s *System) Reset(id ChannelID) error {
	if !id.valid() {
		return fmt.Errorf("%d: %w", id, ErrInvalidChannel)
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.reset(&s.channels[id])
	return nil
}

// IsPlaying reports whether channel id still produces output.
func (s *System) IsPlaying(id ChannelID) bool {
	if !id.valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channels[id].enabled
}

// SetVolume sets the gain of channel id, clamped to [0, 1].
func (s *System) SetVolume(id ChannelID, v float32) error {
	if !id.valid() {
		return fmt.Errorf("%d: %w", id, ErrInvalidChannel)
	}

	s.mu.Lock()
	s.channels[id].volume = clampVolume(v)
	s.mu.Unlock()

	return nil
}

func (s *System) Volume(id ChannelID) float32 {
	if !id.valid() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channels[id].volume
}

func clampVolume(v float32) float32 {
	return max(0, min(v, 1))
}

// CopyMixedSamples fills all of dst with the mix of every playing channel.
// A channel that ends part way through contributes silence for the rest.
func (s *System) CopyMixedSamples(dst []byte) {
	clear(dst)
	if s.noop {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.channels {
		ch := &s.channels[i]
		if ch.enabled {
			s.mixChannel(ch, dst)
		}
	}
}

// Read implements io.Reader over the mixed output. It returns io.EOF once
// the system is closed.
func (s *System) Read(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return 0, io.EOF
	}

	s.CopyMixedSamples(p)
	return len(p), nil
}

// ChannelSamples hands out up to maxLen bytes of the next converted chunk
// of channel id without mixing. The slice is only valid until the next call
// on the System. It reports false when the channel has nothing to give.
func (s *System) ChannelSamples(id ChannelID, maxLen int) ([]byte, bool) {
	if !id.valid() || s.noop {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := &s.channels[id]
	if !ch.enabled {
		return nil, false
	}
	if ch.buf.Len() == 0 && !s.nextFrame(ch) {
		return nil, false
	}

	chunk := ch.buf.Unread()
	n := min(len(chunk), maxLen)
	n -= n % s.spec.Format.Size()
	if n == 0 {
		return nil, false
	}

	ch.buf.Consume(n)
	return chunk[:n], true
}

// Close stops every channel. It is safe to call more than once.
func (s *System) Close() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	for i := range s.channels {
		s.reset(&s.channels[i])
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return nil
}
