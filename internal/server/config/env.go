package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment onto the config.
// A .env file in the working directory is loaded first if present; missing
// files are not an error.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("WALL_ENDPOINT_ADDR", &config.EndpointAddrHTTP)
	setString("WALL_DATABASE_DSN", &config.DatabaseDSN)
	setString("WALL_SECRET_KEY", &config.SecretKey)
	setDuration("WALL_TOKEN_VALIDITY", &config.TokenValidityDuration)
	setDuration("WALL_ARCHIVE_SWEEP_INTERVAL", &config.ArchiveSweepInterval)
	setDuration("WALL_PRESIGN_VALIDITY", &config.PresignValidityDuration)
	setString("WALL_S3_ROOT_USER", &config.S3RootUser)
	setString("WALL_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("WALL_S3_BUCKET", &config.S3Bucket)
	setString("WALL_S3_REGION", &config.S3Region)
	setString("WALL_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
