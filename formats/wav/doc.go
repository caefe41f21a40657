// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav and supports integer PCM at
// 8, 16, 24 and 32 bits with any channel count. Samples are scaled to
// float32 by the signed full scale of their bit depth.
//
//	source, err := wav.Decoder{}.Decode(file)
//
// Writer streams device-format bytes (s16, s32 or f32) into a WAV file and
// fixes up the header sizes on Close:
//
//	w, err := wav.NewWriter(file, audio.Spec{SampleRate: 48000, Channels: 2, Format: audio.FormatS16})
//	w.Write(mixed)
//	w.Close()
package wav
