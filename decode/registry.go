// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/flac"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// DefaultRegistry returns a registry holding every built-in container.
// Detection tries them in registration order; MP3 comes last because its
// frame-sync check is the loosest.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "wav", "wave")
	reg.Register("ogg", vorbis.Decoder{}, "ogg", "oga")
	reg.Register("flac", flac.Decoder{}, "flac")
	reg.Register("aiff", aiff.Decoder{}, "aiff", "aif", "aifc")
	reg.Register("mp3", mp3.Decoder{}, "mp3")
	return reg
}
