package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
		Migrate bool `yaml:"migrate"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	// Auth configura la verificación de bearer tokens contra el IdP externo.
	Auth struct {
		// Issuer es la URL del identity provider (claim iss esperado).
		// El JWKS se resuelve en <issuer>/.well-known/jwks.json salvo
		// que jwks_url lo sobreescriba.
		Issuer   string `yaml:"issuer"`
		Audience string `yaml:"audience"`
		JWKS     struct {
			URL               string `yaml:"url"`
			RefreshTTL        string `yaml:"refresh_ttl"`
			RequestsPerMinute int    `yaml:"requests_per_minute"`
		} `yaml:"jwks"`
	} `yaml:"auth"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyEnv()
	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnv permite sobreescribir los valores sensibles/de despliegue por ENV,
// para correr sin YAML (docker, CI).
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.App.Env, "APP_ENV")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Server.Addr, "SERVER_ADDR")
	set(&c.Storage.Driver, "STORAGE_DRIVER")
	set(&c.Storage.DSN, "DATABASE_URL")
	set(&c.Cache.Kind, "CACHE_KIND")
	set(&c.Cache.Redis.Addr, "REDIS_ADDR")
	set(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	set(&c.Auth.Issuer, "AUTH_ISSUER_URL")
	set(&c.Auth.Audience, "AUTH_AUDIENCE")
	set(&c.Auth.JWKS.URL, "AUTH_JWKS_URL")

	if v := strings.TrimSpace(os.Getenv("AUTH_JWKS_REQUESTS_PER_MINUTE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Auth.JWKS.RequestsPerMinute = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		c.Server.CORSAllowedOrigins = out
	}
	if v := strings.TrimSpace(os.Getenv("STORAGE_MIGRATE")); v != "" {
		c.Storage.Migrate = v == "1" || strings.EqualFold(v, "true")
	}
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "10m"
	}
	if c.Auth.JWKS.RefreshTTL == "" {
		c.Auth.JWKS.RefreshTTL = "10m"
	}
	if c.Auth.JWKS.RequestsPerMinute == 0 {
		// Suficiente para rotaciones de clave normales sin martillar al IdP
		c.Auth.JWKS.RequestsPerMinute = 5
	}
	if c.Auth.JWKS.URL == "" && c.Auth.Issuer != "" {
		c.Auth.JWKS.URL = strings.TrimRight(c.Auth.Issuer, "/") + "/.well-known/jwks.json"
	}
}

func (c *Config) validate() error {
	if c.Auth.Issuer == "" {
		return fmt.Errorf("config: auth.issuer is required (AUTH_ISSUER_URL)")
	}
	if c.Auth.Audience == "" {
		return fmt.Errorf("config: auth.audience is required (AUTH_AUDIENCE)")
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required for the postgres driver (DATABASE_URL)")
	}
	return nil
}

// Duration parsea un string de duración con fallback.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
