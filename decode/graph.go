// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/stream"
)

const (
	// DefaultFrameSize is the number of source frames decoded per pump step.
	DefaultFrameSize = 1024

	// flushFrames bounds each resampler flush step.
	flushFrames = 512

	// maxStalls is how many empty, error-free reads are tolerated in a row.
	maxStalls = 64
)

type state int

const (
	stateDecoding state = iota
	stateDraining
	stateDone
)

// Options configures a Graph. Zero values select defaults.
type Options struct {
	// FrameSize is the number of source frames decoded per step.
	FrameSize int
	// Quality selects the rate converter: 0 cubic, 1..10 windowed sinc.
	Quality int
	// Loop rewinds the stream at end of content instead of draining.
	Loop bool

	Registry *audio.Registry
	Logger   *slog.Logger
}

// Info describes an opened asset.
type Info struct {
	Name       string
	Format     string
	SampleRate int
	Channels   int
	Layout     audio.Layout
}

// Graph is the decode pipeline of one playback: container detection,
// decoding, channel remixing, rate conversion and encoding into the device
// format. It is pull based; each Next decodes at most one frame.
type Graph struct {
	src    stream.Source
	dec    audio.Decoder
	source audio.Source
	info   Info

	spec  audio.Spec
	opts  Options
	log   *slog.Logger
	remix *audio.Remixer
	conv  audio.RateConverter

	in    []float32 // decoded, source layout
	mixed []float32 // remixed, device layout
	out   []float32 // converted

	state       state
	passSamples int
	stalls      int
	closed      bool
}

// Open builds a graph reading from src and producing spec. The graph owns
// src from here on and closes it on Close, including when Open fails.
func Open(src stream.Source, spec audio.Spec, opts Options) (*Graph, error) {
	g, err := open(src, spec, opts)
	if err != nil {
		src.Close()
		return nil, err
	}
	return g, nil
}

func open(src stream.Source, spec audio.Spec, opts Options) (*Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if opts.FrameSize <= 0 {
		opts.FrameSize = DefaultFrameSize
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "decode")
	}

	format, dec, err := detect(src, opts.Registry)
	if err != nil {
		return nil, err
	}

	source, err := decodeFrom(src, dec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	layout := audio.SourceLayout(source)
	g := &Graph{
		src:    src,
		dec:    dec,
		source: source,
		info: Info{
			Name:       src.Name(),
			Format:     format,
			SampleRate: source.SampleRate(),
			Channels:   source.Channels(),
			Layout:     layout,
		},
		spec:  spec,
		opts:  opts,
		log:   opts.Logger.With("asset", src.Name()),
		remix: audio.NewRemixer(layout, source.Channels(), audio.DefaultLayout(spec.Channels), spec.Channels),
		conv:  audio.NewRateConverter(source.SampleRate(), spec.SampleRate, spec.Channels, opts.Quality),
	}

	g.in = make([]float32, opts.FrameSize*source.Channels())
	g.mixed = make([]float32, g.remix.OutputSize(len(g.in)))
	g.out = make([]float32, max(g.conv.OutputSize(len(g.mixed)), flushFrames*spec.Channels))

	return g, nil
}

// detect sniffs the container from the stream header, falling back to the
// asset name's extension. The stream is read from its start, whatever an
// earlier playback left behind, and rewound again afterwards.
func detect(src stream.Source, reg *audio.Registry) (string, audio.Decoder, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", nil, err
	}

	header := make([]byte, audio.SniffLen)
	n, err := io.ReadFull(src, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", nil, err
	}

	if format, dec, ok := reg.Detect(header[:n]); ok {
		return format, dec, nil
	}
	if format, dec, ok := reg.ForExt(filepath.Ext(src.Name())); ok {
		return format, dec, nil
	}

	return "", nil, fmt.Errorf("%w: %s", ErrUnknownFormat, src.Name())
}

func decodeFrom(src stream.Source, dec audio.Decoder) (audio.Source, error) {
	source, err := dec.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if source.SampleRate() <= 0 || source.Channels() <= 0 {
		source.Close()
		return nil, ErrNoAudioStream
	}
	return source, nil
}

func (g *Graph) Info() Info { return g.info }

// MaxChunk is the largest number of bytes one Next can put in a Buffer.
func (g *Graph) MaxChunk() int {
	return max(g.conv.OutputSize(len(g.mixed)), len(g.out)) * g.spec.Format.Size()
}

// Next replaces the content of b with the next converted chunk. It returns
// ErrNoMoreContent once the stream and the rate converter are drained; any
// other error is fatal for this playback.
func (g *Graph) Next(b *Buffer) error {
	for {
		switch g.state {
		case stateDecoding:
			ok, err := g.decodeStep(b)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}

		case stateDraining:
			w := g.conv.Flush(g.out[:flushFrames*g.spec.Channels])
			if w > 0 {
				g.emit(b, g.out[:w])
				return nil
			}
			g.log.Debug("drained")
			g.state = stateDone

		case stateDone:
			return ErrNoMoreContent
		}
	}
}

// decodeStep reads one frame and converts it, reporting whether b received
// any bytes.
func (g *Graph) decodeStep(b *Buffer) (bool, error) {
	n, err := g.source.ReadSamples(g.in)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	eof := err == io.EOF

	var produced bool
	if n > 0 {
		g.stalls = 0
		g.passSamples += n

		if produced, err = g.convert(b, g.in[:n]); err != nil {
			return false, err
		}
	}

	switch {
	case eof:
		if err := g.endOfInput(); err != nil {
			return false, err
		}
	case n == 0:
		g.stalls++
		if g.stalls > maxStalls {
			return false, ErrStalled
		}
	}

	return produced, nil
}

func (g *Graph) convert(b *Buffer, in []float32) (bool, error) {
	samples := in
	if !g.remix.Passthrough() {
		w, err := g.remix.Process(g.mixed, in)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		samples = g.mixed[:w]
	}

	if need := g.conv.OutputSize(len(samples)); need > len(g.out) {
		g.out = make([]float32, need)
	}
	w, err := g.conv.Process(g.out, samples)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if w == 0 {
		return false, nil
	}

	g.emit(b, g.out[:w])
	return true, nil
}

func (g *Graph) emit(b *Buffer, samples []float32) {
	g.spec.Format.Encode(b.fill(len(samples)*g.spec.Format.Size()), samples)
}

// endOfInput rewinds a looping stream, or starts draining. A looping pass
// that produced nothing drains too, so an empty asset cannot spin forever.
func (g *Graph) endOfInput() error {
	if !g.opts.Loop || g.passSamples == 0 {
		g.state = stateDraining
		return nil
	}

	g.log.Debug("rewinding", "samples", g.passSamples)
	if err := g.rewind(); err != nil {
		g.state = stateDone
		return err
	}
	return nil
}

func (g *Graph) rewind() error {
	g.source.Close()
	g.source = nil

	if _, err := g.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	source, err := decodeFrom(g.src, g.dec)
	if err != nil {
		return err
	}
	if source.SampleRate() != g.info.SampleRate || source.Channels() != g.info.Channels {
		source.Close()
		return ErrFormatChanged
	}

	g.source = source
	g.passSamples = 0
	return nil
}

// Close releases the decoder and the stream. It is safe to call more than
// once.
func (g *Graph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	var errs []error
	if g.source != nil {
		errs = append(errs, g.source.Close())
		g.source = nil
	}
	errs = append(errs, g.src.Close())

	return errors.Join(errs...)
}
