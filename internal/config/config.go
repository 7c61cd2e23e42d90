package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "6m" or "24h" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // postgres | mysql
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint     string   `yaml:"endpoint"`
		AccessKey    string   `yaml:"accessKey"`
		SecretKey    string   `yaml:"secretKey"`
		BucketName   string   `yaml:"bucketName"`
		Region       string   `yaml:"region"`
		UseSSL       bool     `yaml:"useSSL"`
		SignedURLTTL Duration `yaml:"signedURLTTL"`
	} `yaml:"minio"`

	AI struct {
		Provider string   `yaml:"provider"` // openai | local
		APIKey   string   `yaml:"apiKey"`
		Model    string   `yaml:"model"`
		Timeout  Duration `yaml:"timeout"`
	} `yaml:"ai"`

	RateLimit struct {
		Capacity int      `yaml:"capacity"`
		Window   Duration `yaml:"window"`
	} `yaml:"ratelimit"`

	Auth struct {
		// owner id -> API key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`
}

// Load reads the YAML config, expanding ${VAR} references against the
// environment so secrets can live in .env.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.SignedURLTTL <= 0 {
		c.Minio.SignedURLTTL = Duration(6 * time.Minute)
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = Duration(60 * time.Second)
	}
	if c.RateLimit.Capacity <= 0 {
		c.RateLimit.Capacity = 3
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = Duration(24 * time.Hour)
	}
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MySQLDSN builds the go-sql-driver connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
