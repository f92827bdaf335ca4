package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Scoping modes supported by the ingestion and query pipeline.
const (
	ModeGlobal = "global"
	ModeTenant = "tenant"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
// It is built once in main and passed to constructors; nothing reads viper
// after startup.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	S3      S3Config      `mapstructure:"s3"`
	Search  SearchConfig  `mapstructure:"search"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Scoping ScopingConfig `mapstructure:"scoping"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// SearchConfig identifies the managed search data store all documents are
// indexed into and queried from.
type SearchConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Location    string `mapstructure:"location"`
	DataStoreID string `mapstructure:"data_store_id"`
	// CredentialsFile is optional; when empty the client falls back to
	// application default credentials.
	CredentialsFile string `mapstructure:"credentials_file"`
}

type UploadConfig struct {
	MaxFileSize int64         `mapstructure:"max_file_size"`
	URLExpiry   time.Duration `mapstructure:"url_expiry"`
}

// ScopingConfig selects the deployment mode: one shared corpus ("global") or
// per-tenant document isolation ("tenant").
type ScopingConfig struct {
	Mode           string `mapstructure:"mode"`
	FallbackTenant string `mapstructure:"fallback_tenant"`
	// RequireTenant rejects queries that carry no tenant id. Only meaningful
	// in tenant mode; some deployments allow cross-tenant queries, some must
	// not.
	RequireTenant bool `mapstructure:"require_tenant"`
}

// RedisConfig configures the optional event dedup filter. An empty address
// disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens issued by the account service. Empty
	// disables the identity middleware; requests are then anonymous.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file, e.g. s3.bucket_name ->
	// S3_BUCKET_NAME, scoping.mode -> SCOPING_MODE.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("search.location", "global")
	viper.SetDefault("upload.max_file_size", 50*1024*1024)
	viper.SetDefault("upload.url_expiry", "15m")
	viper.SetDefault("scoping.mode", ModeGlobal)
	viper.SetDefault("scoping.fallback_tenant", "shared")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file; env vars and defaults must carry everything.
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if err = config.validate(); err != nil {
		return
	}
	return config, nil
}

func (c Config) validate() error {
	if c.S3.BucketName == "" {
		return fmt.Errorf("config: s3.bucket_name is required")
	}
	if c.Search.ProjectID == "" || c.Search.DataStoreID == "" {
		return fmt.Errorf("config: search.project_id and search.data_store_id are required")
	}
	switch c.Scoping.Mode {
	case ModeGlobal, ModeTenant:
	default:
		return fmt.Errorf("config: scoping.mode must be %q or %q, got %q", ModeGlobal, ModeTenant, c.Scoping.Mode)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("config: upload.max_file_size must be positive")
	}
	return nil
}
