package todo_api_config

import (
	"time"

	"github.com/NordCoder/Todorus/internal/obs"
	"github.com/NordCoder/Todorus/internal/ratelimit"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// TrustProxy turns on X-Forwarded-For parsing for rate-limit keys;
	// leave off unless a proxy in front strips the header from clients.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Auth struct {
	// Separate signing secrets: a leaked access secret must not let anyone
	// mint refresh tokens, and vice versa.
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Config struct {
	App       App              `mapstructure:"app"`
	Server    Server           `mapstructure:"server"`
	DB        pg.Config        `mapstructure:"db"`
	OTEL      OTEL             `mapstructure:"otel"`
	Log       Log              `mapstructure:"log"`
	Auth      Auth             `mapstructure:"auth"`
	Redis     Redis            `mapstructure:"redis"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
}
