package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trivia-game-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Game struct {
		QuestionsPerRound int `yaml:"questionsPerRound"`
		TimeLimitSeconds  int `yaml:"timeLimitSeconds"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GameConfig applies defaults for unset game knobs.
func (c Config) GameConfig() domain.GameConfig {
	game := domain.DefaultGameConfig()
	if c.Game.QuestionsPerRound > 0 {
		game.QuestionsPerRound = c.Game.QuestionsPerRound
	}
	if c.Game.TimeLimitSeconds > 0 {
		game.TimeLimitSeconds = c.Game.TimeLimitSeconds
	}
	return game
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
