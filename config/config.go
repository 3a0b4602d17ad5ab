package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ModelStoreFile = "file"
	ModelStoreS3   = "s3"

	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	MongoURI     string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/"`
	DBName       string        `env:"DB_NAME" envDefault:"fitmate"`
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"mongo"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`

	ModelStore    string `env:"MODEL_STORE" envDefault:"file"`
	ModelDir      string `env:"MODEL_DIR" envDefault:"models"`
	ModelPrefix   string `env:"MODEL_PREFIX" envDefault:"models/"`
	AWSRegion     string `env:"AWS_REGION"`
	AWSBucketName string `env:"AWS_BUCKET_NAME"`
}

// LoadConfig loads environment variables from .env file, then parses them
// into a Config.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}
	return Parse()
}

// Parse reads Config from the current environment and validates it.
func Parse() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings and the values they require.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendMongo, StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendMongo, StoreBackendMemory, c.StoreBackend)
	}
	switch c.ModelStore {
	case ModelStoreFile:
	case ModelStoreS3:
		if c.AWSBucketName == "" {
			return fmt.Errorf("AWS_BUCKET_NAME is required when MODEL_STORE=%s", ModelStoreS3)
		}
	default:
		return fmt.Errorf("MODEL_STORE must be %q or %q, got %q", ModelStoreFile, ModelStoreS3, c.ModelStore)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
