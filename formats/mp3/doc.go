// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// The decoder always produces 16-bit stereo, so mono files come out with
// both channels equal. Samples are scaled by 1/32768.
//
//	src, err := mp3.Decoder{}.Decode(file)
package mp3
