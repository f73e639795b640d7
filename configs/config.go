package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the blog needs at startup. Values come from
// defaults, an optional config file and BLOG_* environment variables.
type Config struct {
	HTTP       HTTPConfig
	Store      StoreConfig
	Mongo      MongoConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Uploads    UploadsConfig
	Minio      MinioConfig
	Render     RenderConfig
	Validation ValidationConfig
	Otel       OtelConfig
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// RateLimit is the number of post submissions allowed per client per
	// minute. Zero disables limiting.
	RateLimit int
	// Pprof mounts the runtime profiling handlers.
	Pprof bool
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type PostgresConfig struct {
	URL string
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type UploadsConfig struct {
	Driver       string
	Dir          string
	RandomSuffix bool
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type RenderConfig struct {
	EscapeHTML bool
}

type ValidationConfig struct {
	Strict bool
}

type OtelConfig struct {
	Endpoint    string
	ServiceName string
}

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	UploadsDisk  = "disk"
	UploadsMinio = "minio"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.read_timeout", 100*time.Second)
	v.SetDefault("http.write_timeout", 100*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.rate_limit", 0)
	v.SetDefault("http.pprof", false)

	v.SetDefault("store.driver", StoreMongo)

	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "blogPlatform")
	v.SetDefault("mongo.collection", "blogs")

	v.SetDefault("postgres.url", "")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.cache_ttl", 7*24*time.Hour)

	v.SetDefault("uploads.driver", UploadsDisk)
	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.random_suffix", false)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minio")
	v.SetDefault("minio.secret_key", "minio123")
	v.SetDefault("minio.bucket", "blog-uploads")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("render.escape_html", false)
	v.SetDefault("validation.strict", false)

	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service_name", "simple-blog")
}

// LoadConfig reads the configuration. configFile may be empty, in which case
// only defaults and the environment are used.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			RateLimit:       v.GetInt("http.rate_limit"),
			Pprof:           v.GetBool("http.pprof"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("mongo.uri"),
			Database:   v.GetString("mongo.database"),
			Collection: v.GetString("mongo.collection"),
		},
		Postgres: PostgresConfig{
			URL: v.GetString("postgres.url"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("redis.url"),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		Uploads: UploadsConfig{
			Driver:       strings.ToLower(v.GetString("uploads.driver")),
			Dir:          v.GetString("uploads.dir"),
			RandomSuffix: v.GetBool("uploads.random_suffix"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("minio.endpoint"),
			AccessKey: v.GetString("minio.access_key"),
			SecretKey: v.GetString("minio.secret_key"),
			Bucket:    v.GetString("minio.bucket"),
			UseSSL:    v.GetBool("minio.use_ssl"),
		},
		Render: RenderConfig{
			EscapeHTML: v.GetBool("render.escape_html"),
		},
		Validation: ValidationConfig{
			Strict: v.GetBool("validation.strict"),
		},
		Otel: OtelConfig{
			Endpoint:    v.GetString("otel.endpoint"),
			ServiceName: v.GetString("otel.service_name"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreMongo, StoreMemory:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres URL (BLOG_POSTGRES_URL) must be set when store driver is postgres")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Uploads.Driver {
	case UploadsDisk, UploadsMinio:
	default:
		return fmt.Errorf("unknown uploads driver %q", c.Uploads.Driver)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Addr=%s, Store=%s, Uploads=%s, Cache=%t, EscapeHTML=%t, Strict=%t",
		c.HTTP.Addr, c.Store.Driver, c.Uploads.Driver, c.Redis.URL != "", c.Render.EscapeHTML, c.Validation.Strict)
}
