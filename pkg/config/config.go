package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iwilltry42/addrmatch/pkg/types"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Load reads the configuration from defaults, an optional YAML file and
// ADDRMATCH_* environment variables, in increasing order of precedence.
// With an empty path the usual locations are searched and a missing file is
// not an error; an explicit path must exist.
func Load(path string) (*types.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("addrmatch")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.addrmatch")
		v.AddConfigPath("/etc/addrmatch/")
	}

	v.SetEnvPrefix("ADDRMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Debugln("No config file found, using defaults and environment")
	} else {
		log.Debugf("Using config file '%s'", v.ConfigFileUsed())
	}

	cfg := &types.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key, which also makes AutomaticEnv see keys
// that appear in no config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", types.DEFAULT_LOG_LEVEL)
	v.SetDefault("log_format", "text")
	v.SetDefault("engine", types.DEFAULT_ENGINE)
	v.SetDefault("match_timeout", types.DEFAULT_MATCH_TIMEOUT)
	v.SetDefault("workers", types.DEFAULT_WORKERS)
	v.SetDefault("grammar.rules_file", "")
	v.SetDefault("grammar.include", []string{})
	v.SetDefault("grammar.exclude", []string{})
	v.SetDefault("grammar.fold_accents", false)
	v.SetDefault("server.listen_address", types.DEFAULT_LISTEN_ADDRESS)
	v.SetDefault("server.read_timeout", types.DEFAULT_READ_TIMEOUT)
	v.SetDefault("server.max_batch", types.DEFAULT_MAX_BATCH)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", types.DEFAULT_TOKEN_ISSUER)
	v.SetDefault("auth.token_ttl", types.DEFAULT_TOKEN_TTL)
}

// SetupLogging applies the configured level and format to the logrus standard logger
func SetupLogging(cfg *types.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format '%s'", cfg.LogFormat)
	}
	return nil
}
