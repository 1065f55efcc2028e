package httpframework

import (
	"fmt"
	"time"
)

type Config struct {
	Port              int           `split_words:"true" default:"3001"`
	Env               string        `split_words:"true"`
	Name              string        `split_words:"true" default:"crm-insights-gateway"`
	StaticDir         string        `split_words:"true" default:"public"`
	ShutdownTimeout   time.Duration `split_words:"true" default:"10s"`
	ReadHeaderTimeout time.Duration `split_words:"true" default:"5s"`
	CORSAllowOrigins  []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid app port %d", c.Port)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must be >= 0")
	}
	return nil
}

func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = 3001
	}
	return fmt.Sprintf(":%d", port)
}

func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}
