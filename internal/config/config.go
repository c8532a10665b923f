package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Fal      FalConfig
	Upload   UploadConfig
	State    StateConfig
	Download DownloadConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// FalConfig holds credentials and endpoints for the fal.ai storage API.
type FalConfig struct {
	APIKey      string `envconfig:"FAL_KEY" required:"true"`
	StorageURL  string `envconfig:"FAL_STORAGE_URL" default:"https://rest.alpha.fal.ai"`
	StorageType string `envconfig:"FAL_STORAGE_TYPE" default:"fal-cdn-v3"`
}

type UploadConfig struct {
	MaxFileSize    int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10485760"` // 10MB
	MaxAttempts    int           `envconfig:"UPLOAD_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"UPLOAD_RETRY_BASE_DELAY" default:"1s"`
	RetryMaxDelay  time.Duration `envconfig:"UPLOAD_RETRY_MAX_DELAY" default:"30s"`
	AttemptTimeout time.Duration `envconfig:"UPLOAD_ATTEMPT_TIMEOUT" default:"5m"`
	CleanupEvery   time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"1h"`
	CleanupMaxAge  time.Duration `envconfig:"UPLOAD_CLEANUP_MAX_AGE" default:"24h"`
	// WorkerBin overrides the transfer worker binary, empty means a sibling
	// of the current executable named fal-upload-worker.
	WorkerBin      string `envconfig:"UPLOAD_WORKER_BIN" default:""`
	StorageBackend string `envconfig:"UPLOAD_STORAGE_BACKEND" default:"fal"` // fal | minio
}

// StateConfig selects where session records live. The file backend is the
// default and needs nothing beyond a writable directory.
type StateConfig struct {
	Backend    string `envconfig:"UPLOAD_STATE_BACKEND" default:"file"` // file | sqlite | postgres
	Dir        string `envconfig:"FAL_UPLOAD_STATE_DIR" required:"true"`
	SQLitePath string `envconfig:"UPLOAD_SQLITE_PATH" default:""`
}

type DownloadConfig struct {
	Dir string `envconfig:"FAL_DOWNLOAD_DIR" default:"."`
}

type MinioConfig struct {
	Endpoint                  string        `envconfig:"MINIO_ENDPOINT" default:""`
	BucketName                string        `envconfig:"MINIO_BUCKET_NAME" default:""`
	AccessKey                 string        `envconfig:"MINIO_ACCESS_KEY" default:""`
	SecretKey                 string        `envconfig:"MINIO_SECRET_KEY" default:""`
	DownloadSignedURLDuration time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"168h"`
	UseSSL                    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

// NATSConfig configures the optional transfer event stream. An empty URL
// disables publishing entirely.
type NATSConfig struct {
	URL           string `envconfig:"NATS_URL" default:""`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"UPLOADS"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"uploads.transfer"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" default:""`
	Password       string        `envconfig:"DB_PASSWORD" default:""`
	Name           string        `envconfig:"DB_NAME" default:""`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the cross-field requirements envconfig tags cannot express:
// optional backends only need their settings when actually selected.
func (c *Config) validate() error {
	switch c.State.Backend {
	case "file", "sqlite":
	case "postgres":
		if c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("state backend postgres requires DB_USER and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}

	switch c.Upload.StorageBackend {
	case "fal":
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			return fmt.Errorf("storage backend minio requires MINIO_ENDPOINT and MINIO_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Upload.StorageBackend)
	}

	return nil
}
