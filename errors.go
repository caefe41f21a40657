// SPDX-License-Identifier: EPL-2.0

package audmix

import "errors"

var (
	ErrInvalidChannel = errors.New("channel id out of range")
	ErrInvalidDevice  = errors.New("invalid device description")
	ErrClosed         = errors.New("audio system closed")
	ErrNoAsset        = errors.New("no asset given")
)
