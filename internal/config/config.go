package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Database settings are optional at startup: the server comes up with a
	// not-ready store and the connection is injected once it succeeds.
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Credentials for the channel-authorization endpoint. The key is public
	// (clients echo it back), the secret signs subscription requests.
	RealtimeAppKey    string `env:"REALTIME_APP_KEY" envDefault:"build-app-key"`
	RealtimeAppSecret string `env:"REALTIME_APP_SECRET" envDefault:"build-secret"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`

	// PrerenderMode swaps in the stub store, the no-op broadcaster and the
	// placeholder identity so static generation never needs live infra.
	PrerenderMode bool `env:"PRERENDER_MODE" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
