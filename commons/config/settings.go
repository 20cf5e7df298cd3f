package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigPathEnv names an explicit settings file
const ConfigPathEnv = "CRON_COMMANDER_CONFIG"

const envPrefix = "CRON_COMMANDER"

// Scheduler backends
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendDynamoDB  = "dynamodb"
	BackendZooKeeper = "zookeeper"
)

// Audit backends
const (
	AuditLog = "log"
	AuditSQS = "sqs"
)

type Settings struct {
	Service   ServiceSettings   `mapstructure:"service"`
	Server    ServerSettings    `mapstructure:"server"`
	Log       LogSettings       `mapstructure:"log"`
	Scheduler SchedulerSettings `mapstructure:"scheduler"`
	Redis     RedisSettings     `mapstructure:"redis"`
	DynamoDB  DynamoDBSettings  `mapstructure:"dynamodb"`
	ZooKeeper ZooKeeperSettings `mapstructure:"zookeeper"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Nonce     NonceSettings     `mapstructure:"nonce"`
	Audit     AuditSettings     `mapstructure:"audit"`
	Display   DisplaySettings   `mapstructure:"display"`
}

type ServiceSettings struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerSettings struct {
	Host              string        `mapstructure:"host"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type LogSettings struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type SchedulerSettings struct {
	Backend    string        `mapstructure:"backend"`
	ReArmDelay time.Duration `mapstructure:"rearm_delay"`

	// Seed preloads the memory backend
	Seed []SeedJob `mapstructure:"seed"`
}

type SeedJob struct {
	Hook       string `mapstructure:"hook"`
	Timestamp  int64  `mapstructure:"timestamp"`
	Recurrence string `mapstructure:"recurrence"`
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type DynamoDBSettings struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Table    string `mapstructure:"table"`
}

type ZooKeeperSettings struct {
	Servers        []string      `mapstructure:"servers"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
	Root           string        `mapstructure:"root"`
}

type AuthSettings struct {
	Keys []APIKeySettings `mapstructure:"keys"`

	// AdminKey is a single manage_options key, convenient to set from the environment
	AdminKey string `mapstructure:"admin_key"`
}

type APIKeySettings struct {
	Key          string   `mapstructure:"key"`
	Caller       string   `mapstructure:"caller"`
	Capabilities []string `mapstructure:"capabilities"`
}

type NonceSettings struct {
	Backend  string        `mapstructure:"backend"`
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

type AuditSettings struct {
	Backend  string `mapstructure:"backend"`
	QueueURL string `mapstructure:"queue_url"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

type DisplaySettings struct {
	Locale    string                   `mapstructure:"locale"`
	Timezone  string                   `mapstructure:"timezone"`
	Intervals map[string]time.Duration `mapstructure:"intervals"`
}

// SetDefaults registers a default for every key so environment overrides resolve
func SetDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "cron-commander")
	v.SetDefault("service.version", "v1")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8091")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("scheduler.backend", BackendMemory)
	v.SetDefault("scheduler.rearm_delay", 60*time.Second)
	v.SetDefault("scheduler.seed", []SeedJob{})

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "cron")

	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.table", "cron_events")

	v.SetDefault("zookeeper.servers", []string{"localhost:2181"})
	v.SetDefault("zookeeper.session_timeout", 30*time.Second)
	v.SetDefault("zookeeper.root", "/cron")

	v.SetDefault("auth.keys", []APIKeySettings{})
	v.SetDefault("auth.admin_key", "")

	v.SetDefault("nonce.backend", BackendMemory)
	v.SetDefault("nonce.ttl", 12*time.Hour)
	v.SetDefault("nonce.capacity", 10000)

	v.SetDefault("audit.backend", AuditLog)
	v.SetDefault("audit.queue_url", "")
	v.SetDefault("audit.region", "us-east-1")
	v.SetDefault("audit.endpoint", "")

	v.SetDefault("display.locale", "en")
	v.SetDefault("display.timezone", "UTC")
	v.SetDefault("display.intervals", map[string]time.Duration{})
}

// LoadSettings reads settings from the file named by CRON_COMMANDER_CONFIG,
// else ./cron-commander.yaml if present, then applies environment overrides
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(os.Getenv(ConfigPathEnv))
}

// LoadSettingsFrom is LoadSettings with an explicit file; an empty path searches the working directory
func LoadSettingsFrom(path string) (*Settings, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cron-commander")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate rejects settings the providers cannot act on
func (s *Settings) Validate() error {
	switch s.Scheduler.Backend {
	case BackendMemory, BackendRedis, BackendDynamoDB, BackendZooKeeper:
	default:
		return fmt.Errorf("unknown scheduler.backend %q", s.Scheduler.Backend)
	}

	switch s.Nonce.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown nonce.backend %q", s.Nonce.Backend)
	}

	switch s.Audit.Backend {
	case AuditLog:
	case AuditSQS:
		if s.Audit.QueueURL == "" {
			return errors.New("audit.queue_url is required for the sqs audit backend")
		}
	default:
		return fmt.Errorf("unknown audit.backend %q", s.Audit.Backend)
	}

	if s.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if s.Scheduler.ReArmDelay < 0 {
		return errors.New("scheduler.rearm_delay must not be negative")
	}
	if s.Scheduler.Backend == BackendZooKeeper && len(s.ZooKeeper.Servers) == 0 {
		return errors.New("zookeeper.servers must be set for the zookeeper backend")
	}

	for i, key := range s.Auth.Keys {
		if key.Key == "" || key.Caller == "" {
			return fmt.Errorf("auth.keys[%d] needs both key and caller", i)
		}
	}

	return nil
}
