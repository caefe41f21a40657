// SPDX-License-Identifier: EPL-2.0

// Package audmix is the playback core of an interactive-fiction player.
//
// A System owns a fixed set of channels, one per role: background music,
// voice and sound effects. Each channel plays one asset at a time, decoded
// incrementally and converted to the device's sample format, rate and
// channel layout. The device, or anything standing in for it, pulls the mix
// of all playing channels:
//
//	sys, err := audmix.NewSystem(&audmix.DeviceInfo{
//		Channels:   2,
//		SampleRate: 48000,
//		Format:     audio.FormatS16,
//	})
//	if err != nil {
//		return err
//	}
//	defer sys.Close()
//
//	sys.PlayFile(audmix.ChannelBGM, "bgm/title.ogg", true)
//	sys.PlayFile(audmix.ChannelSE, "se/door.wav", false)
//
//	// device callback
//	sys.CopyMixedSamples(out)
//
// # Formats
//
// Containers are recognised from their first bytes, falling back to the
// file extension:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//
// # Errors
//
// A broken or unsupported asset never fails a Play call: the channel stays
// silent and the cause is logged. A decode error during playback stops that
// channel only. Play methods return errors for caller mistakes such as an
// invalid ChannelID.
//
// # Mixing
//
// Channels are mixed in ChannelID order. Every contribution is scaled by
// the channel volume and clamped right away, see audio.MixSamples.
//
// Passing a nil DeviceInfo to NewSystem gives a system that accepts every
// call and outputs silence, for machines without an audio device.
package audmix
