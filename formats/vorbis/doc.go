// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
// Surround streams are reordered from Vorbis channel order into the
// ascending speaker order used by audio.Layout, so a 5.1 stream comes out
// as FL FR FC LFE SL SR.
package vorbis
