package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

var ErrInvalidValue = errors.New("invalid config value")

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string     `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis      `yaml:"redis"`
	Suggestion Suggestion `yaml:"suggestion"`
	Match      Match      `yaml:"match"`
}

// Redis with an empty host keeps sessions in process memory.
type Redis struct {
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"REDIS_SESSION_TTL" env-default:"24h"`
}

// Suggestion with an empty url plays AI turns with the built-in bot.
type Suggestion struct {
	URL        string        `yaml:"url" env:"SUGGESTION_URL" env-default:""`
	Timeout    time.Duration `yaml:"timeout" env:"SUGGESTION_TIMEOUT" env-default:"5s"`
	Difficulty string        `yaml:"difficulty" env:"SUGGESTION_DIFFICULTY" env-default:"hard"`
}

type Match struct {
	Player1Mode string `yaml:"player1-mode" env:"MATCH_PLAYER1_MODE" env-default:"human"`
	Player2Mode string `yaml:"player2-mode" env:"MATCH_PLAYER2_MODE" env-default:"ai"`
	Undo        string `yaml:"undo" env:"MATCH_UNDO" env-default:"ply"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path and applies environment overrides on top of it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	if !entity.Difficulty(that.Suggestion.Difficulty).IsValid() {
		return fmt.Errorf("%w: suggestion.difficulty %q", ErrInvalidValue, that.Suggestion.Difficulty)
	}

	if !entity.PlayerMode(that.Match.Player1Mode).IsValid() {
		return fmt.Errorf("%w: match.player1-mode %q", ErrInvalidValue, that.Match.Player1Mode)
	}

	if !entity.PlayerMode(that.Match.Player2Mode).IsValid() {
		return fmt.Errorf("%w: match.player2-mode %q", ErrInvalidValue, that.Match.Player2Mode)
	}

	if !entity.UndoGranularity(that.Match.Undo).IsValid() {
		return fmt.Errorf("%w: match.undo %q", ErrInvalidValue, that.Match.Undo)
	}

	if that.Redis.SessionTTL <= 0 {
		return fmt.Errorf("%w: redis.session-ttl %s", ErrInvalidValue, that.Redis.SessionTTL)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
