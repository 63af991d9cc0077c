package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fleet_battle/internal/app/combat"
)

type Config struct {
	ServiceHost   string
	ServicePort   int
	RedisEndpoint string
	RedisPassword string
	JwtKey        string
	JwtTTL        time.Duration
	// FleetLockTTL bounds how long a crashed battle can keep a fleet locked.
	FleetLockTTL time.Duration

	Minio     MinioConfig
	Combat    CombatConfig
	RateLimit RateLimitConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type CombatConfig struct {
	Ruleset  string
	RoundCap int
	Tiebreak string
	// Variance of PvE opponent power around the player's power.
	Variance float64
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func NewConfig() (*Config, error) {
	var err error
	configName := "config"
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 8080)
	viper.SetDefault("JwtTTL", 24*time.Hour)
	viper.SetDefault("FleetLockTTL", 30*time.Second)
	viper.SetDefault("Minio.Bucket", "replays")
	viper.SetDefault("Combat.Ruleset", "cosmic_fleet")
	viper.SetDefault("Combat.Variance", 0.05)
	viper.SetDefault("RateLimit.RPS", 2)
	viper.SetDefault("RateLimit.Burst", 5)

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	viper.WatchConfig()

	// Чтение .env
	err = godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using defaults")
	}

	viper.BindEnv("RedisEndpoint", "REDIS_ENDPOINT")
	viper.BindEnv("RedisPassword", "REDIS_PASSWORD")
	viper.BindEnv("JwtKey", "JWT_KEY")
	viper.BindEnv("Minio.Endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("Minio.AccessKey", "MINIO_ACCESS_KEY")
	viper.BindEnv("Minio.SecretKey", "MINIO_SECRET_KEY")

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := combat.ParseTiebreak(cfg.Combat.Tiebreak); err != nil {
		return nil, fmt.Errorf("Combat.Tiebreak: %w", err)
	}
	if cfg.Combat.RoundCap < 0 {
		return nil, fmt.Errorf("Combat.RoundCap must not be negative, got %d", cfg.Combat.RoundCap)
	}

	logrus.Info("config parsed")
	return cfg, nil
}
