// internal/workers/sponsorship/immigration-guidance/config.go
package immigrationguidance

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 20 * time.Second,
	}
}
