package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cupid/internal/flagx"
	"github.com/dmitrijs2005/cupid/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they may be written as "10s" or as integer nanoseconds.
// Absent keys leave the current values untouched.
type JsonConfig struct {
	IdentityEndpointAddr string         `json:"identity_endpoint_addr"`
	DataDir              string         `json:"data_dir"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	Locale               string         `json:"locale"`
	ForceLocalSignOut    *bool          `json:"force_local_sign_out"`
	LogLevel             string         `json:"log_level"`

	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket"`
}

// parseJson overlays Config with values from the file named by -c or
// -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.IdentityEndpointAddr, jc.IdentityEndpointAddr)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.Locale, jc.Locale)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ForceLocalSignOut != nil {
		cfg.ForceLocalSignOut = *jc.ForceLocalSignOut
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
