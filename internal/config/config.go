// SPDX-License-Identifier: EPL-2.0

// Package config loads the audmix tool configuration from a YAML file,
// AUDMIX_ environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
)

// EnvPrefix prefixes every environment override, e.g. AUDMIX_DEVICE_BACKEND.
const EnvPrefix = "AUDMIX"

type Config struct {
	Device  DeviceConfig  `mapstructure:"device"`
	Mixer   MixerConfig   `mapstructure:"mixer"`
	Decode  DecodeConfig  `mapstructure:"decode"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type DeviceConfig struct {
	Backend      string `mapstructure:"backend"` // oto, portaudio, file or none
	SampleRate   int    `mapstructure:"sample_rate"`
	Channels     int    `mapstructure:"channels"`
	Format       string `mapstructure:"format"` // s16, s32 or f32
	BufferFrames int    `mapstructure:"buffer_frames"`
	Output       string `mapstructure:"output"` // file backend only
}

type MixerConfig struct {
	BGMVolume   float32 `mapstructure:"bgm_volume"`
	VoiceVolume float32 `mapstructure:"voice_volume"`
	SEVolume    float32 `mapstructure:"se_volume"`
}

type DecodeConfig struct {
	FrameSize       int `mapstructure:"frame_size"`
	ResampleQuality int `mapstructure:"resample_quality"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("device.backend", "oto")
	v.SetDefault("device.sample_rate", 44100)
	v.SetDefault("device.channels", 2)
	v.SetDefault("device.format", "s16")
	v.SetDefault("device.buffer_frames", 1024)
	v.SetDefault("device.output", "audmix.wav")
	v.SetDefault("mixer.bgm_volume", 1.0)
	v.SetDefault("mixer.voice_volume", 1.0)
	v.SetDefault("mixer.se_volume", 1.0)
	v.SetDefault("decode.frame_size", 1024)
	v.SetDefault("decode.resample_quality", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// Load reads the configuration into a Config. file names an explicit
// config file; when empty config.yaml is searched for in the working
// directory, $HOME/.audmix and /etc/audmix. A .env file in the working
// directory is loaded into the environment first if it exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.audmix")
		v.AddConfigPath("/etc/audmix")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges; the first problem is returned as a
// *ConfigError.
func (c *Config) Validate() error {
	switch c.Device.Backend {
	case "oto", "portaudio", "file", "none":
	default:
		return &ConfigError{Field: "device.backend", Message: fmt.Sprintf("unknown backend %q", c.Device.Backend)}
	}

	if c.Device.SampleRate < 8000 || c.Device.SampleRate > 384000 {
		return &ConfigError{Field: "device.sample_rate", Message: "must be between 8000 and 384000"}
	}
	if c.Device.Channels < 1 || c.Device.Channels > 8 {
		return &ConfigError{Field: "device.channels", Message: "must be between 1 and 8"}
	}
	if _, err := audio.ParseSampleFormat(c.Device.Format); err != nil {
		return &ConfigError{Field: "device.format", Message: "must be s16, s32 or f32"}
	}
	if c.Device.BufferFrames <= 0 {
		return &ConfigError{Field: "device.buffer_frames", Message: "must be positive"}
	}
	if c.Device.Backend == "file" && c.Device.Output == "" {
		return &ConfigError{Field: "device.output", Message: "is required by the file backend"}
	}

	volumes := []struct {
		field string
		v     float32
	}{
		{"mixer.bgm_volume", c.Mixer.BGMVolume},
		{"mixer.voice_volume", c.Mixer.VoiceVolume},
		{"mixer.se_volume", c.Mixer.SEVolume},
	}
	for _, vol := range volumes {
		if vol.v < 0 || vol.v > 1 {
			return &ConfigError{Field: vol.field, Message: "must be between 0 and 1"}
		}
	}

	if c.Decode.FrameSize <= 0 {
		return &ConfigError{Field: "decode.frame_size", Message: "must be positive"}
	}
	if c.Decode.ResampleQuality < 0 || c.Decode.ResampleQuality > 10 {
		return &ConfigError{Field: "decode.resample_quality", Message: "must be between 0 and 10"}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "none", "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}

	return nil
}

// SampleFormat is the parsed device.format.
func (c *Config) SampleFormat() audio.SampleFormat {
	f, _ := audio.ParseSampleFormat(c.Device.Format)
	return f
}

// Volumes lists the mixer volumes in channel order.
func (c *Config) Volumes() []float32 {
	return []float32{c.Mixer.BGMVolume, c.Mixer.VoiceVolume, c.Mixer.SEVolume}
}

// ConfigError is a validation failure of one key.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
