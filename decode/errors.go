// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	// ErrNoMoreContent ends a non-looping playback after the final flush.
	ErrNoMoreContent = errors.New("no more content")

	ErrUnknownFormat = errors.New("unrecognised audio container")
	ErrNoAudioStream = errors.New("no usable audio stream")
	ErrFormatChanged = errors.New("stream format changed on rewind")
	ErrStalled       = errors.New("decoder made no progress")
	ErrDecode        = errors.New("decode failed")
)
