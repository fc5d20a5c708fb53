package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"live-trivia-service/internal/app"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Questions QuestionsConfig `yaml:"questions"`
	Game      GameConfig      `yaml:"game"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"TRIVIA_PORT"`
	// PublicURL is the externally reachable base URL used in join links.
	PublicURL string `yaml:"public_url" env:"TRIVIA_PUBLIC_URL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"TRIVIA_REDIS_ADDR"`
	Password string `yaml:"password" env:"TRIVIA_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"TRIVIA_REDIS_DB"`
	TTL      string `yaml:"ttl" env:"TRIVIA_REDIS_TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"TRIVIA_POSTGRES_URL"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"TRIVIA_SQLITE_PATH"`
}

type QuestionsConfig struct {
	TTL        string `yaml:"ttl" env:"TRIVIA_QUESTIONS_TTL"`
	DefaultSet string `yaml:"default_set" env:"TRIVIA_DEFAULT_SET"`
}

type GameConfig struct {
	TimeLimit        string   `yaml:"time_limit" env:"TRIVIA_TIME_LIMIT"`
	BasePoints       int      `yaml:"base_points" env:"TRIVIA_BASE_POINTS"`
	// Penalty and CountdownSeconds may be set to zero, so unset is nil.
	Penalty          *int     `yaml:"penalty" env:"TRIVIA_PENALTY"`
	CountdownSeconds *int     `yaml:"countdown_seconds" env:"TRIVIA_COUNTDOWN_SECONDS"`
	CountdownTick    string   `yaml:"countdown_tick" env:"TRIVIA_COUNTDOWN_TICK"`
	SettleDelay      string   `yaml:"settle_delay" env:"TRIVIA_SETTLE_DELAY"`
	CompletionGrace  string   `yaml:"completion_grace" env:"TRIVIA_COMPLETION_GRACE"`
	IdleTimeout      string   `yaml:"idle_timeout" env:"TRIVIA_IDLE_TIMEOUT"`
	FadeOffsets      []string `yaml:"fade_offsets" env:"TRIVIA_FADE_OFFSETS" envSeparator:","`
	QuestionLimit    int      `yaml:"question_limit" env:"TRIVIA_QUESTION_LIMIT"`
	RoundIntros      bool     `yaml:"round_intros" env:"TRIVIA_ROUND_INTROS"`
	IncludeFillers   bool     `yaml:"include_fillers" env:"TRIVIA_INCLUDE_FILLERS"`
	Sponsor          string   `yaml:"sponsor" env:"TRIVIA_SPONSOR"`
}

// Load reads YAML config from path, then applies TRIVIA_* environment
// overrides. A .env file in the working directory is loaded first if present.
// A missing config file is not an error; the environment alone is enough.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
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

// GameSettings converts the game section to engine settings, filling gaps
// with app.DefaultSettings.
func (c Config) GameSettings() app.Settings {
	defaults := app.DefaultSettings()
	g := c.Game
	settings := app.Settings{
		TimeLimit:        TTLDuration(g.TimeLimit, defaults.TimeLimit),
		BasePoints:       positiveOr(g.BasePoints, defaults.BasePoints),
		Penalty:          nonNegativeOr(g.Penalty, defaults.Penalty),
		CountdownSeconds: nonNegativeOr(g.CountdownSeconds, defaults.CountdownSeconds),
		CountdownTick:    TTLDuration(g.CountdownTick, defaults.CountdownTick),
		SettleDelay:      TTLDuration(g.SettleDelay, defaults.SettleDelay),
		CompletionGrace:  TTLDuration(g.CompletionGrace, defaults.CompletionGrace),
		IdleTimeout:      TTLDuration(g.IdleTimeout, defaults.IdleTimeout),
		FadeOffsets:      defaults.FadeOffsets,
		RoundIntros:      g.RoundIntros,
		IncludeFillers:   g.IncludeFillers,
		QuestionLimit:    g.QuestionLimit,
		Sponsor:          g.Sponsor,
	}
	if len(g.FadeOffsets) > 0 {
		offsets := make([]time.Duration, 0, len(g.FadeOffsets))
		for _, raw := range g.FadeOffsets {
			if d := TTLDuration(raw, 0); d > 0 {
				offsets = append(offsets, d)
			}
		}
		settings.FadeOffsets = offsets
	}
	return settings
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func nonNegativeOr(v *int, fallback int) int {
	if v != nil && *v >= 0 {
		return *v
	}
	return fallback
}
