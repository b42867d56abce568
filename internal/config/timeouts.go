package config

import (
	"time"

	"github.com/spf13/viper"
)

// Timeouts holds all configurable timeout values.
type Timeouts struct {
	Request  time.Duration // Transport timeout of one cluster request
	Callback time.Duration // Timeout of the CloudFormation response upload
}

// LoadTimeouts loads timeout configuration from v.
// If a value is not set or invalid, a default value is used.
//
// Environment Variables:
//   - SEARCHPROV_TIMEOUT_REQUEST (default: 30s)
//   - SEARCHPROV_TIMEOUT_CALLBACK (default: 10s)
func LoadTimeouts(v *viper.Viper) Timeouts {
	return Timeouts{
		Request:  parseDuration(v, KeyRequestTimeout, 30*time.Second),
		Callback: parseDuration(v, KeyCallbackTimeout, 10*time.Second),
	}
}

// parseDuration parses a positive duration from v.
// If the key is not set or parsing fails, the default value is returned.
func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	val := v.GetString(key)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}
