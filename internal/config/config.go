package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	// SQLitePath is the fallback store when no MySQL host is configured.
	// Useful for development and CI.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"minishare.db"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// StorageBucket selects the GCS image backend when set; otherwise images
	// are written to UploadDir and served under UploadBaseURL.
	StorageBucket string `env:"STORAGE_BUCKET"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`
}

func (c *Config) UseMySQL() bool {
	return c.DBHost != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
