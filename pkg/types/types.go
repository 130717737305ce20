package types

import (
	"time"
)

const (
	DEFAULT_ENGINE         = "re2"
	DEFAULT_LOG_LEVEL      = "info"
	DEFAULT_LISTEN_ADDRESS = ":8080"
	DEFAULT_READ_TIMEOUT   = 10 * time.Second
	DEFAULT_MATCH_TIMEOUT  = 100 * time.Millisecond
	DEFAULT_TOKEN_ISSUER   = "addrmatch"
	DEFAULT_TOKEN_TTL      = time.Hour
	DEFAULT_WORKERS        = 4
	DEFAULT_MAX_BATCH      = 1000
)

// Config is the complete configuration of the addrmatch CLI and service
type Config struct {
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string        `mapstructure:"log_format" yaml:"log_format"`
	Engine       string        `mapstructure:"engine" yaml:"engine"`
	MatchTimeout time.Duration `mapstructure:"match_timeout" yaml:"match_timeout"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`
	Grammar      GrammarConfig `mapstructure:"grammar" yaml:"grammar"`
	Server       ServerConfig  `mapstructure:"server" yaml:"server"`
	Auth         AuthConfig    `mapstructure:"auth" yaml:"auth"`
}

// GrammarConfig describes which rules are loaded and how subjects are prepared
type GrammarConfig struct {
	RulesFile   string   `mapstructure:"rules_file" yaml:"rules_file"`
	Include     []string `mapstructure:"include" yaml:"include"`
	Exclude     []string `mapstructure:"exclude" yaml:"exclude"`
	FoldAccents bool     `mapstructure:"fold_accents" yaml:"fold_accents"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	ListenAddress string        `mapstructure:"listen_address" yaml:"listen_address"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	MaxBatch      int           `mapstructure:"max_batch" yaml:"max_batch"`
}

// AuthConfig holds the shared secret used to sign and verify bearer tokens.
// An empty secret disables authentication.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	Issuer   string        `mapstructure:"issuer" yaml:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}
