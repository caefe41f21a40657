// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/internal/logger"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg     *config.Config
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "audmix",
		Short: "Mix and play game audio assets",
		Long: `audmix decodes WAV, Ogg Vorbis, FLAC, AIFF and MP3 assets, converts them to
the output device format and mixes the background music, voice and sound
effect channels the way the player does at run time.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.String("backend", "oto", "output backend (oto, portaudio, file, none)")
	flags.Int("rate", 44100, "device sample rate")
	flags.Int("channels", 2, "device channel count")
	flags.String("format", "s16", "device sample format (s16, s32, f32)")
	flags.Int("buffer-frames", 1024, "device buffer size in frames")
	flags.Int("quality", 0, "resampling quality, 0 for cubic or 1-10 for windowed sinc")
	flags.String("log-level", "info", "log level (none, debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("log-file", "", "write logs to this file")

	bind := map[string]string{
		"device.backend":          "backend",
		"device.sample_rate":      "rate",
		"device.channels":         "channels",
		"device.format":           "format",
		"device.buffer_frames":    "buffer-frames",
		"decode.resample_quality": "quality",
		"logging.level":           "log-level",
		"logging.format":          "log-format",
		"logging.file":            "log-file",
	}
	for key, flag := range bind {
		a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newPlayCmd(a),
		newRenderCmd(a),
		newConvertCmd(a),
		newProbeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.verbose {
		a.v.Set("logging.level", "debug")
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	closer, err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	a.cfg = cfg
	a.logFile = closer
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

// systemOptions are the System options taken from the configuration.
func (a *app) systemOptions() []audmix.Option {
	return []audmix.Option{
		audmix.WithLogger(logger.WithComponent("audmix")),
		audmix.WithVolumes(a.cfg.Volumes()...),
		audmix.WithFrameSize(a.cfg.Decode.FrameSize),
		audmix.WithResampleQuality(a.cfg.Decode.ResampleQuality),
	}
}

// deviceInfo is the device format configured for offline rendering.
func (a *app) deviceInfo() *audmix.DeviceInfo {
	return &audmix.DeviceInfo{
		Channels:   a.cfg.Device.Channels,
		SampleRate: a.cfg.Device.SampleRate,
		Format:     a.cfg.SampleFormat(),
		BufferSize: a.cfg.Device.BufferFrames,
	}
}
