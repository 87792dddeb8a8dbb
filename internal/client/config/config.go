package config

import (
	"time"

	"github.com/dmitrijs2005/cupid/internal/filex"
)

// Config holds runtime settings for the Cupid client.
//
// Fields:
//   - IdentityEndpointAddr: host:port of the identity backend gRPC endpoint.
//   - DataDir: directory of the local database (credentials and caches).
//   - RequestTimeout: upper bound for a single backend call.
//   - Locale: BCP 47 tag of the message language ("en", "zh-Hans").
//   - ForceLocalSignOut: clear the local session even if remote sign-out fails.
//   - S3*: remote profile document store; disabled while S3Bucket is empty.
type Config struct {
	IdentityEndpointAddr string        `env:"CUPID_IDENTITY_ADDR"`
	DataDir              string        `env:"CUPID_DATA_DIR"`
	RequestTimeout       time.Duration `env:"CUPID_REQUEST_TIMEOUT"`
	Locale               string        `env:"CUPID_LOCALE"`
	ForceLocalSignOut    bool          `env:"CUPID_FORCE_LOCAL_SIGN_OUT"`
	LogLevel             string        `env:"CUPID_LOG_LEVEL"`

	S3Region       string `env:"CUPID_S3_REGION"`
	S3BaseEndpoint string `env:"CUPID_S3_ENDPOINT"`
	S3AccessKey    string `env:"CUPID_S3_ACCESS_KEY"`
	S3SecretKey    string `env:"CUPID_S3_SECRET_KEY"`
	S3Bucket       string `env:"CUPID_S3_BUCKET"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityEndpointAddr = "127.0.0.1:50051"
	c.DataDir = ".cupid"
	if dir, err := filex.DefaultDataDir("cupid"); err == nil {
		c.DataDir = dir
	}
	c.RequestTimeout = 10 * time.Second
	c.Locale = "zh-Hans"
	c.LogLevel = "warn"
	c.S3Region = "us-east-1"
}

// S3Enabled reports whether the remote profile store is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
