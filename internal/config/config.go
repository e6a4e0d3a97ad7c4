package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Media    MediaConfig    `mapstructure:"media"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Import   ImportConfig   `mapstructure:"import"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// UpstreamConfig configures the third-party exercise provider.
// There is no ambient/global provider state: this struct is built once at
// process start and handed by reference to the upstream client.
type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	APIHost string `mapstructure:"api_host"`
	// SearchTimeout bounds interactive search/get-by-id calls,
	// ImportTimeout bounds the larger per-group fetches of the batch import.
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	ImportTimeout time.Duration `mapstructure:"import_timeout"`
}

// MediaConfig configures the S3-compatible bucket the importer mirrors
// exercise GIFs into. Mirroring is optional; when Enabled is false the
// importer keeps the provider-hosted URLs.
type MediaConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL is the URL prefix clients fetch mirrored objects from,
	// e.g. a CDN or the bucket's public endpoint.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig defines JWT specific configuration. Tokens are issued by an
// external auth service; this application only validates them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// ImportConfig tunes the batch import sweep.
type ImportConfig struct {
	// Delay is the pause inserted after each muscle group, a deliberate
	// self-imposed rate limit against the upstream provider.
	Delay time.Duration `mapstructure:"delay"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: upstream.api_key -> UPSTREAM_API_KEY etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Secrets have no defaults and usually arrive via environment only.
	// Unmarshal only sees keys viper already knows, so bind them explicitly.
	viper.BindEnv("upstream.api_key")
	viper.BindEnv("media.access_key_id")
	viper.BindEnv("media.secret_access_key")
	viper.BindEnv("jwt.secret")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_app_default")
	viper.SetDefault("upstream.base_url", "https://exercisedb.p.rapidapi.com")
	viper.SetDefault("upstream.api_host", "exercisedb.p.rapidapi.com")
	viper.SetDefault("upstream.search_timeout", "10s")
	viper.SetDefault("upstream.import_timeout", "20s")
	viper.SetDefault("media.enabled", false)
	viper.SetDefault("media.use_ssl", true)
	viper.SetDefault("import.delay", "600ms")

	err = viper.ReadInConfig()
	// A missing config file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
