package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	ClientOrigin   string `mapstructure:"CLIENT_ORIGIN"`
	PublicBaseURL  string `mapstructure:"PUBLIC_BASE_URL"`
	TrackingPrefix string `mapstructure:"TRACKING_PREFIX"`
	AdminEmail     string `mapstructure:"ADMIN_EMAIL"`
	AWSRegion      string `mapstructure:"AWS_REGION"`
	EmailSender    string `mapstructure:"EMAIL_SENDER"`
	StripeAPIKey   string
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read in environment variables that match

	err := viper.ReadInConfig()
	if err != nil {
		// A missing .env file is fine; everything can come from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.StripeAPIKey = os.Getenv("STRIPE_API_KEY")

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.TrackingPrefix == "" {
		cfg.TrackingPrefix = "ST-"
	}

	return &cfg, nil
}
