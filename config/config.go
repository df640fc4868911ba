package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration parameters read from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"8882"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Schedule for the periodic summary snapshot job.
	SnapshotSchedule string `envconfig:"SNAPSHOT_SCHEDULE" default:"0 6 * * *"`

	// Text-generation backend for outreach emails. When the key is empty the
	// service falls back to the built-in templates.
	TextGenBaseURL string `envconfig:"TEXTGEN_BASE_URL" default:"https://api.openai.com/v1"`
	TextGenAPIKey  string `envconfig:"TEXTGEN_API_KEY"`
	TextGenModel   string `envconfig:"TEXTGEN_MODEL" default:"gpt-3.5-turbo"`

	// Optional S3 archive for generated exports (CSV, disavow files).
	// Archival is skipped entirely when the endpoint is unset.
	ArchiveS3Key    string `envconfig:"ARCHIVE_S3_KEY"`
	ArchiveS3Secret string `envconfig:"ARCHIVE_S3_SECRET"`
	ArchiveS3URL    string `envconfig:"ARCHIVE_S3_URL"`
	ArchiveS3Region string `envconfig:"ARCHIVE_S3_REGION" default:"us-east-1"`
	ArchiveS3Bucket string `envconfig:"ARCHIVE_S3_BUCKET"`
}

// DSN returns the Data Source Name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ArchiveEnabled reports whether export archival to S3 is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveS3URL != "" && c.ArchiveS3Bucket != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
