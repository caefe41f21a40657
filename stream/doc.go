// SPDX-License-Identifier: EPL-2.0

// Package stream provides the byte sources audio assets are decoded from:
// plain files and ranges inside a larger archive.
//
// Both kinds cap each Read at ChunkSize bytes and answer Seek with whence
// SeekSize by returning their total size.
//
//	arc, _ := os.Open("data.pak")
//	src := stream.NewPackage(arc, entry.Offset, entry.Length, entry.Name)
package stream
