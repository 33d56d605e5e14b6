package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	ClientIDStoreFile  = "file"
	ClientIDStoreRedis = "redis"

	DirectoryBackend = "backend"
	DirectoryFile    = "file"
	DirectoryMongo   = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=3001"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StaticDir       string        `env:"STATIC_DIR,       default=client/build"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	TarsAPI   TarsAPIConfig
	ClientID  ClientIDConfig
	Directory DirectoryConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// TarsAPIConfig points at the backend service.
type TarsAPIConfig struct {
	URL     string        `env:"TARS_API_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"TARS_API_TIMEOUT, default=30s"`
}

// ClientIDConfig selects where the installation's client identifier lives.
type ClientIDConfig struct {
	Store string `env:"CLIENT_ID_STORE,    default=file"`
	Path  string `env:"CLIENT_CONFIG_PATH, default=client-config.json"`
}

// DirectoryConfig selects the source for user, client and preference lookups.
type DirectoryConfig struct {
	Source  string `env:"DIRECTORY_SOURCE, default=backend"`
	DataDir string `env:"DATA_DIR,         default=../TeamProject/data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tars"`
}

type RedisConfig struct {
	Addr        string `env:"REDIS_ADDR,          default=localhost:6379"`
	Password    string `env:"REDIS_PASSWORD"`
	DB          int    `env:"REDIS_DB,            default=0"`
	ClientIDKey string `env:"REDIS_CLIENT_ID_KEY, default=tars:client-id"`
}

// IsDev reports whether the process runs in the development environment.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.ClientID.Store == ClientIDStoreRedis
}

// UsesMongo reports whether any component needs a MongoDB connection.
func (c *Config) UsesMongo() bool {
	return c.Directory.Source == DirectoryMongo
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from the given lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ClientID.Store {
	case ClientIDStoreFile, ClientIDStoreRedis:
	default:
		return fmt.Errorf("config: CLIENT_ID_STORE must be %q or %q, got %q",
			ClientIDStoreFile, ClientIDStoreRedis, c.ClientID.Store)
	}
	switch c.Directory.Source {
	case DirectoryBackend, DirectoryFile, DirectoryMongo:
	default:
		return fmt.Errorf("config: DIRECTORY_SOURCE must be one of %q, %q, %q, got %q",
			DirectoryBackend, DirectoryFile, DirectoryMongo, c.Directory.Source)
	}
	if strings.TrimSpace(c.TarsAPI.URL) == "" {
		return errors.New("config: TARS_API_URL must not be empty")
	}
	return nil
}
