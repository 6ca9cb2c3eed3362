package config

import (
	"time"
)

// DatabaseConfig is the MongoDB connection used for the ZIP centroid cache.
type DatabaseConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	MaxPoolSize    int           `yaml:"max_pool_size"`
	MinPoolSize    int           `yaml:"min_pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SocketTimeout  time.Duration `yaml:"socket_timeout"`
}

func (d *DatabaseConfig) Enabled() bool {
	return d != nil && d.URI != ""
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:            getEnv("MONGODB_URI", ""),
		Database:       getEnv("MONGODB_DATABASE", "petcare"),
		MaxPoolSize:    getEnvAsInt("MONGODB_MAX_POOL_SIZE", 20),
		MinPoolSize:    getEnvAsInt("MONGODB_MIN_POOL_SIZE", 1),
		ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:  getEnvAsDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
	}
}

// PostgresConfig is the internal places store.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"`
}

func (p *PostgresConfig) Enabled() bool {
	return p != nil && p.DSN != ""
}

func loadPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		DSN:             getEnv("DATABASE_URL", ""),
		MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		MigrateOnStart:  getEnvAsBool("DATABASE_MIGRATE_ON_START", true),
	}
}
