// internal/workers/matching/extract-skills/config.go
package extractskills

import "time"

type Config struct {
	MaxResults int
	MinScore   float64
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxResults: 25,
		MinScore:   0.3,
		Timeout:    10 * time.Second,
	}
}
