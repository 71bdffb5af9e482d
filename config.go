package migsplit

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig.
const EnvPrefix = "MIGSPLIT"

// Config holds splitter and verifier settings read from the environment.
type Config struct {
	Dir      string `envconfig:"DIR" default:"."`
	OutDir   string `envconfig:"OUT_DIR"`
	Pattern  string `envconfig:"PATTERN" default:"*.sql"`
	Markers  string `envconfig:"MARKERS" default:"dbmate"`
	UpFile   string `envconfig:"UP_FILE" default:"up.sql"`
	DownFile string `envconfig:"DOWN_FILE" default:"down.sql"`
	FailFast bool   `envconfig:"FAIL_FAST"`
	DryRun   bool   `envconfig:"DRY_RUN"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Driver string `envconfig:"DRIVER" default:"postgres"`
	DSN    string `envconfig:"DSN"`
}

// LoadConfig reads an optional .env file followed by MIGSPLIT_* variables.
// Variables already set in the environment take precedence over the file.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debugf(".env file not loaded: %v", err)
	}

	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ApplyLogLevel sets the global logrus level from cfg.LogLevel.
func (c *Config) ApplyLogLevel() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)
	return nil
}

// Options converts the config into splitter options.
func (c *Config) Options() (Options, error) {
	markers, err := MarkersByName(c.Markers)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Dir:      c.Dir,
		OutDir:   c.OutDir,
		Pattern:  c.Pattern,
		Markers:  markers,
		UpFile:   c.UpFile,
		DownFile: c.DownFile,
		FailFast: c.FailFast,
		DryRun:   c.DryRun,
	}, nil
}
