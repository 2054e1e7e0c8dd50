package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig.
const (
	EnvAPIURL    = "NOTES_API_URL"
	EnvStore     = "NOTES_STORE"
	EnvStorePath = "NOTES_STORE_PATH"
	EnvNamespace = "NOTES_NAMESPACE"
	EnvRedisAddr = "NOTES_REDIS_ADDR"
	EnvRedisPass = "NOTES_REDIS_PASSWORD"
	EnvRedisDB   = "NOTES_REDIS_DB"
	EnvMongoURI  = "NOTES_MONGO_URI"
	EnvMongoDB   = "NOTES_MONGO_DB"
)

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MongoConfig configures the mongo store.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Config is the user-editable configuration.
type Config struct {
	APIURL    string      `yaml:"api_url"`
	Store     string      `yaml:"store"`
	StorePath string      `yaml:"store_path,omitempty"`
	Namespace string      `yaml:"namespace,omitempty"`
	Redis     RedisConfig `yaml:"redis,omitempty"`
	Mongo     MongoConfig `yaml:"mongo,omitempty"`

	// File is the configuration file that was read, if any.
	File string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		APIURL: DefaultBaseURL,
		Store:  "fs",
		Mongo:  MongoConfig{Database: "notes"},
	}
}

// LoadConfig merges, in increasing precedence: defaults, the YAML file found
// from dir, the .env file in dir and the process environment.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()

	path, err := FindConfig(dir)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.File = path
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read .env: %w", err)
	}

	getEnv := func(key, fallback string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		if value, exists := dotenv[key]; exists {
			return value
		}
		return fallback
	}

	cfg.APIURL = getEnv(EnvAPIURL, cfg.APIURL)
	cfg.Store = getEnv(EnvStore, cfg.Store)
	cfg.StorePath = getEnv(EnvStorePath, cfg.StorePath)
	cfg.Namespace = getEnv(EnvNamespace, cfg.Namespace)
	cfg.Redis.Addr = getEnv(EnvRedisAddr, cfg.Redis.Addr)
	cfg.Redis.Password = getEnv(EnvRedisPass, cfg.Redis.Password)
	cfg.Mongo.URI = getEnv(EnvMongoURI, cfg.Mongo.URI)
	cfg.Mongo.Database = getEnv(EnvMongoDB, cfg.Mongo.Database)

	if raw := getEnv(EnvRedisDB, ""); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		cfg.Redis.DB = db
	}

	return cfg, nil
}
