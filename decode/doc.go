// SPDX-License-Identifier: EPL-2.0

// Package decode turns an asset stream into device-format PCM one chunk at
// a time.
//
// A Graph detects the container, decodes it with the matching format
// package, remixes to the device channel layout, converts the sample rate
// and encodes the result into a Buffer:
//
//	src, _ := stream.Open("bgm.ogg")
//	g, err := decode.Open(src, spec, decode.Options{Loop: true})
//	if err != nil {
//		return err
//	}
//	defer g.Close()
//
//	var buf decode.Buffer
//	for {
//		if err := g.Next(&buf); err != nil {
//			break // decode.ErrNoMoreContent at the normal end
//		}
//		consume(buf.Unread())
//	}
//
// Looping graphs rewind the stream when it ends and never report
// ErrNoMoreContent, unless a whole pass yields no samples.
package decode
