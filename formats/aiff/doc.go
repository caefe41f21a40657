// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and uncompressed AIFC files.
//
// It wraps github.com/go-audio/aiff and supports signed PCM at 8, 16, 24
// and 32 bits. Decode needs to seek, so readers without io.Seeker are
// buffered in memory first.
package aiff
