// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"strings"
	"sync"
)

// SniffLen is the number of header bytes handed to Sniffer implementations.
const SniffLen = 12

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// LayoutSource is implemented by sources that carry explicit speaker layout metadata.
type LayoutSource interface {
	Layout() Layout
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognise their container
// from the first SniffLen bytes of a stream.
type Sniffer interface {
	Sniff(header []byte) bool
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Detection walks decoders in registration order.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. exts are file extensions (without the dot)
// used when the header does not identify the container.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	r.exts[format] = format
	for _, ext := range exts {
		r.exts[strings.ToLower(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Detect returns the first registered decoder whose Sniff accepts header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, format := range r.order {
		s, ok := r.codecs[format].(Sniffer)
		if ok && s.Sniff(header) {
			return format, r.codecs[format], true
		}
	}

	return "", nil, false
}

// ForExt looks a decoder up by file extension; a leading dot is ignored.
func (r *Registry) ForExt(ext string) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format, ok := r.exts[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return "", nil, false
	}

	return format, r.codecs[format], true
}

// Formats lists the registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]string(nil), r.order...)
}
