// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks of the mixer.
//
// Decoded audio enters as a Source producing interleaved float32 samples in
// [-1, 1]. From there it passes through:
//   - Remixer, which maps one speaker Layout onto another
//   - RateConverter, which changes the sample rate (cubic or windowed sinc)
//   - SampleFormat.Encode, which produces device bytes (s16, s32 or f32)
//
// MixSamples then accumulates encoded bytes from several channels into a
// device buffer.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// ReadSamples returns the number of float32 values written. A return of
// 0, io.EOF marks the end of the stream.
//
// # Rate Conversion
//
// Converters are push based: Process consumes a whole input block and may
// hold some of it back, Flush drains what remains once input has ended.
//
//	conv := audio.NewRateConverter(44100, 48000, 2, 0)
//	out := make([]float32, conv.OutputSize(len(in)))
//	n, err := conv.Process(out, in)
//
// Quality 0 selects cubic interpolation with a one-pole low-pass filter
// when downsampling. Qualities 1 to 10 use github.com/oov/audio/resampler.
//
// # Mixing
//
// MixSamples normalizes both operands to full scale, adds the source scaled
// by a volume, clamps to [-1, 1] and truncates back. The clamp is applied on
// every call, so mixing order matters once a sum leaves range.
//
// # Format Registry
//
// The registry maps format keys and file extensions to decoders, and can
// identify a container from its first SniffLen bytes:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, "wave")
//	format, decoder, ok := registry.Detect(header)
package audio
