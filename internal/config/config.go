// Package config loads layered configuration: defaults, optional config
// file, environment variables, then command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Paths    PathsConfig  `mapstructure:"paths"`
	Audio    AudioConfig  `mapstructure:"audio"`
	Server   ServerConfig `mapstructure:"server"`
}

type PathsConfig struct {
	DiphoneDir  string `mapstructure:"diphone_dir"`
	LexiconPath string `mapstructure:"lexicon_path"`
}

type AudioConfig struct {
	OutputRate  int `mapstructure:"output_rate"`
	Channels    int `mapstructure:"channels"`
	ChunkFrames int `mapstructure:"chunk_frames"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	Workers         int    `mapstructure:"workers"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Paths: PathsConfig{
			DiphoneDir:  "diphones",
			LexiconPath: "cmudict.dict",
		},
		Audio: AudioConfig{
			OutputRate:  16000,
			Channels:    1,
			ChunkFrames: 256,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    4096,
			RequestTimeout:  60,
			ShutdownTimeout: 30,
			Workers:         2,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("paths-diphone-dir", defaults.Paths.DiphoneDir, "Directory containing diphone WAV recordings")
	fs.String("paths-lexicon-path", defaults.Paths.LexiconPath, "Path to CMU-format pronouncing dictionary")
	fs.Int("audio-output-rate", defaults.Audio.OutputRate, "Output sample rate in Hz")
	fs.Int("audio-channels", defaults.Audio.Channels, "Output channel count")
	fs.Int("audio-chunk-frames", defaults.Audio.ChunkFrames, "Frames per device read/write chunk")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum text length per request in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request synthesis deadline in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Int("server-workers", defaults.Server.Workers, "Maximum concurrent synthesis requests")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("DIPHONETTS")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("diphonetts")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("paths.diphone_dir", c.Paths.DiphoneDir)
	v.SetDefault("paths.lexicon_path", c.Paths.LexiconPath)
	v.SetDefault("audio.output_rate", c.Audio.OutputRate)
	v.SetDefault("audio.channels", c.Audio.Channels)
	v.SetDefault("audio.chunk_frames", c.Audio.ChunkFrames)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.workers", c.Server.Workers)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("paths.diphone_dir", "paths-diphone-dir")
	v.RegisterAlias("paths.lexicon_path", "paths-lexicon-path")
	v.RegisterAlias("audio.output_rate", "audio-output-rate")
	v.RegisterAlias("audio.channels", "audio-channels")
	v.RegisterAlias("audio.chunk_frames", "audio-chunk-frames")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.request_timeout", "server-request-timeout")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("server.workers", "server-workers")
}
