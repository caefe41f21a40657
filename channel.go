// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/decode"
)

// ChannelID names one of the fixed mixer channels.
type ChannelID int

const (
	ChannelBGM ChannelID = iota
	ChannelVoice
	ChannelSE

	// MaxChannels is the number of mixer channels.
	MaxChannels = 3
)

func (id ChannelID) String() string {
	switch id {
	case ChannelBGM:
		return "bgm"
	case ChannelVoice:
		return "voice"
	case ChannelSE:
		return "se"
	}
	return fmt.Sprintf("ChannelID(%d)", int(id))
}

func (id ChannelID) valid() bool { return id >= 0 && id < MaxChannels }

// channel is one playback slot. enabled, graph and volume are guarded by
// System.mu; the buffer belongs to whoever may touch the graph: the output
// path while enabled, the control path otherwise.
type channel struct {
	id       ChannelID
	enabled  bool
	loop     bool
	volume   float32
	graph    *decode.Graph
	buf      decode.Buffer
	playback uuid.UUID
	asset    string
}

// mixChannel overlays up to len(dst) bytes of the channel onto dst and reports
// how many were mixed. It ends the playback when the graph fails or runs
// out of content. Called with System.mu held.
func (s *System) mixChannel(ch *channel, dst []byte) int {
	size := s.spec.Format.Size()
	off := 0

	for off < len(dst) {
		if ch.buf.Len() == 0 && !s.nextFrame(ch) {
			break
		}

		chunk := ch.buf.Unread()
		n := min(len(chunk), len(dst)-off)
		n -= n % size
		if n == 0 {
			break
		}

		audio.MixSamples(dst[off:off+n], chunk[:n], s.spec.Format, ch.volume)
		ch.buf.Consume(n)
		off += n
	}

	return off
}

// nextFrame refills the conversion buffer, ending the playback on failure.
// Called with System.mu held.
func (s *System) nextFrame(ch *channel) bool {
	err := ch.graph.Next(&ch.buf)
	if err == nil {
		return true
	}

	log := s.log.With("channel", ch.id, "asset", ch.asset, "playback", ch.playback)
	if errors.Is(err, decode.ErrNoMoreContent) {
		log.Debug("playback finished")
	} else {
		log.Error("playback failed", "error", err)
	}

	g := s.disable(ch)
	if g != nil {
		g.Close()
	}
	return false
}

// disable clears enabled, drops buffered content and detaches the graph,
// returning it for the caller to close. Called with System.mu held.
func (s *System) disable(ch *channel) *decode.Graph {
	g := ch.graph
	ch.enabled = false
	ch.graph = nil
	ch.buf.Reset()
	return g
}
