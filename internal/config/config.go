package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	DataDir         string   `envconfig:"DATA_DIR" default:"./data"`
	StoreBackend    string   `envconfig:"STORE_BACKEND" default:"file"`
	MatchesFile     string   `envconfig:"MATCHES_FILE"`
	ServiceName     string   `envconfig:"SERVICE_NAME" default:"secret-santa-v2"`
	MaxMessageChars int      `envconfig:"MAX_MESSAGE_CHARS" default:"1000"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func FromEnv() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
