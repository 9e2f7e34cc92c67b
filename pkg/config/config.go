package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type ModerationConfig struct {
	// ChatIDs lists the group chats under moderation.
	ChatIDs []int64 `mapstructure:"chat_ids"`
	// JournalChatID receives audit entries and moderator commands.
	JournalChatID int64 `mapstructure:"journal_chat_id"`
	// ChannelID is the only channel forwards are allowed from.
	ChannelID int64 `mapstructure:"channel_id"`
	// AnonymousAdminID is the sender ID Telegram substitutes for anonymous
	// group admins; it bypasses the per-user admin check.
	AnonymousAdminID int64         `mapstructure:"anonymous_admin_id"`
	WarningTTL       time.Duration `mapstructure:"warning_ttl"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
}

type ClassifierConfig struct {
	// Backend selects the classifier implementation: "bayes" or "openai".
	Backend string `mapstructure:"backend"`
	// HoldoutFraction of the corpus is reserved for the accuracy estimate.
	HoldoutFraction float64 `mapstructure:"holdout_fraction"`
	// EvalSample caps how many corpus lines the OpenAI backend scores when
	// estimating accuracy after a retrain.
	EvalSample int `mapstructure:"eval_sample"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type CorpusConfig struct {
	// Backend selects the corpus store: "file" or "postgres".
	Backend  string         `mapstructure:"backend"`
	Path     string         `mapstructure:"path"`
	Database DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MetricsConfig struct {
	// Addr is the listen address for the Prometheus endpoint; empty
	// disables it.
	Addr string `mapstructure:"addr"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("moderation.anonymous_admin_id", 1087968824)
	v.SetDefault("moderation.warning_ttl", "15s")
	v.SetDefault("moderation.cleanup_interval", "24h")
	v.SetDefault("classifier.backend", "bayes")
	v.SetDefault("classifier.holdout_fraction", 0.2)
	v.SetDefault("classifier.eval_sample", 20)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 5)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("corpus.backend", "file")
	v.SetDefault("corpus.path", "dataset.txt")
	v.SetDefault("corpus.database.port", 5432)
	v.SetDefault("corpus.database.host", "localhost")
	v.SetDefault("corpus.database.user", "postgres")
	v.SetDefault("corpus.database.sslmode", "disable")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Get environment variable overrides
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports the first missing required setting. A validation failure
// is fatal at startup: the bot must not run half-configured.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if len(c.Moderation.ChatIDs) == 0 {
		return fmt.Errorf("moderation.chat_ids must list at least one chat")
	}
	if c.Moderation.JournalChatID == 0 {
		return fmt.Errorf("moderation.journal_chat_id is required")
	}
	if c.Moderation.ChannelID == 0 {
		return fmt.Errorf("moderation.channel_id is required")
	}
	switch c.Classifier.Backend {
	case "bayes":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for the openai classifier backend")
		}
	default:
		return fmt.Errorf("unknown classifier backend %q", c.Classifier.Backend)
	}
	switch c.Corpus.Backend {
	case "file":
		if c.Corpus.Path == "" {
			return fmt.Errorf("corpus.path is required for the file corpus backend")
		}
	case "postgres":
		if c.Corpus.Database.DBName == "" {
			return fmt.Errorf("corpus.database.dbname is required for the postgres corpus backend")
		}
	default:
		return fmt.Errorf("unknown corpus backend %q", c.Corpus.Backend)
	}
	return nil
}
