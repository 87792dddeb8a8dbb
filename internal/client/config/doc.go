// Package config loads runtime configuration for the Cupid client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. CUPID_* environment variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "identity_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": "/home/me/.config/cupid",
//	  "request_timeout": "10s",
//	  "locale": "zh-Hans",
//	  "force_local_sign_out": false,
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_bucket": "cupid-profiles"
//	}
package config
