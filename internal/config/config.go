// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed view of the process configuration.
type Config struct {
	Port           string
	StorageDriver  string
	MongoURI       string
	MongoDatabase  string
	DatabaseDSN    string
	StorageTimeout time.Duration
	RabbitMQURL    string
	HashPasswords  bool
	CORSOrigins    string
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5002")
	v.SetDefault("STORAGE_DRIVER", "mongo")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "shoeshop")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("STORAGE_TIMEOUT", "10s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("HASH_PASSWORDS", false)
	v.SetDefault("CORS_ORIGINS", "*")
}

// Load reads .env files (when present) into the environment and returns the
// configuration resolved by a fresh viper instance.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper resolves a Config from v.
func FromViper(v *viper.Viper) Config {
	return Config{
		Port:           v.GetString("PORT"),
		StorageDriver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDatabase:  v.GetString("MONGODB_DATABASE"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		StorageTimeout: v.GetDuration("STORAGE_TIMEOUT"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		HashPasswords:  v.GetBool("HASH_PASSWORDS"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
	}
}

// ListenAddr returns the address to listen on. PORT may be given as "5002"
// or ":5002".
func (c Config) ListenAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "5002"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
