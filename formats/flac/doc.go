// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams through github.com/mewkiz/flac.
//
// Frames are decoded one at a time and interleaved on demand, so memory
// use stays at one frame regardless of file length. Samples are scaled by
// the signed full scale of each frame's bit depth.
package flac
