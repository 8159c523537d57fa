package configs

import (
	"log"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

// GetConfig loads configuration once and returns the shared instance.
// Lookup order: config.yaml in the working directory or ./configs,
// overridden by environment variables (dots become underscores, e.g.
// DATABASE_HOST overrides database.host).
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setDefaults(v)

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Fatalf("Failed to read config file: %v", err)
			}
		}

		config = &Config{Viper: v}
	})
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kingbackend")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "kingbackend")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jwt.secret", "")

	v.SetDefault("queue.concurrency", 10)

	v.SetDefault("push.credentials_file", "")
	v.SetDefault("push.rate_per_second", 100)
	v.SetDefault("push.max_devices_per_platform", 5)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.external_endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("maintenance.dedupe_cron", "0 3 * * *")
	v.SetDefault("maintenance.dedupe_enabled", true)
}
