package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Output   OutputConfig   `toml:"output"`
	Cache    CacheConfig    `toml:"cache"`
	Provider ProviderConfig `toml:"provider"`
}

// SearchConfig controls candidate matching.
type SearchConfig struct {
	Variants    []string `toml:"variants"`
	DurationMin int      `toml:"duration_min"`
	DurationMax int      `toml:"duration_max"`
}

// OutputConfig controls download post-processing and artifacts.
type OutputConfig struct {
	TranscodeMP3         bool `toml:"transcode_mp3"`
	GenerateM3U          bool `toml:"generate_m3u"`
	ExcludeInstrumentals bool `toml:"exclude_instrumentals"`
	EmbedThumbnails      bool `toml:"embed_thumbnails"`
	SpotifyArt           bool `toml:"spotify_art"`
}

// CacheConfig contains search cache settings.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// ProviderConfig contains external tool settings.
type ProviderConfig struct {
	YTDLPPath           string  `toml:"ytdlp_path"`
	FFmpegPath          string  `toml:"ffmpeg_path"`
	SearchTimeoutSecs   int     `toml:"search_timeout_secs"`
	DownloadTimeoutSecs int     `toml:"download_timeout_secs"`
	RateLimit           float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
