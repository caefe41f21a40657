// SPDX-License-Identifier: EPL-2.0

// Package device drives a System from an output device. A Device is
// negotiated first, so the System can be created for the format it
// obtained, and started afterwards with the System as its sample reader.
package device

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
)

var (
	ErrUnknownBackend    = errors.New("unknown device backend")
	ErrUnsupportedFormat = errors.New("sample format not supported by backend")
	ErrStarted           = errors.New("device already started")
)

// Config selects and shapes a device.
type Config struct {
	Backend      string
	SampleRate   int
	Channels     int
	Format       audio.SampleFormat
	BufferFrames int
	// Output is the file written by the file backend.
	Output string

	Logger *slog.Logger
}

// Device is an opened output device.
type Device interface {
	// Info is the negotiated format, nil when there is no device.
	Info() *audmix.DeviceInfo
	// Start begins pulling samples from r.
	Start(r io.Reader) error
	Close() error
}

// Open negotiates the backend named in cfg.
func Open(cfg Config) (Device, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "device")
	}
	cfg.Logger = cfg.Logger.With("backend", cfg.Backend)

	if cfg.Backend == "none" {
		cfg.Logger.Info("no audio device, output is discarded")
		return none{}, nil
	}

	if cfg.BufferFrames <= 0 {
		cfg.BufferFrames = 1024
	}

	info := &audmix.DeviceInfo{
		Channels:   cfg.Channels,
		SampleRate: cfg.SampleRate,
		Format:     cfg.Format,
		BufferSize: cfg.BufferFrames,
	}
	if err := info.Spec().Validate(); err != nil {
		return nil, err
	}

	var (
		dev Device
		err error
	)
	switch cfg.Backend {
	case "oto":
		dev, err = openOto(cfg, info)
	case "portaudio":
		dev, err = openPortAudio(cfg, info)
	case "file":
		dev, err = openFile(cfg, info)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, ErrUnknownBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Backend, err)
	}

	cfg.Logger.Info("audio device ready",
		"rate", info.SampleRate,
		"channels", info.Channels,
		"format", info.Format,
		"buffer_frames", info.BufferSize,
	)
	return dev, nil
}

type none struct{}

func (none) Info() *audmix.DeviceInfo { return nil }
func (none) Start(io.Reader) error    { return nil }
func (none) Close() error             { return nil }
