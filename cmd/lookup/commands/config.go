package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/WessleyAI/vehicle-lookup/engine/vpic"
)

// Config holds every setting the lookup binaries read.
type Config struct {
	Port           string     `mapstructure:"port"`
	CORSOrigin     string     `mapstructure:"cors_origin"`
	NATSURL        string     `mapstructure:"nats_url"`
	GRPCHealthPort string     `mapstructure:"grpc_health_port"`
	LogFile        string     `mapstructure:"log_file"`
	LogLevel       string     `mapstructure:"log_level"`
	VPIC           VPICConfig `mapstructure:"vpic"`
	OTel           OTelConfig `mapstructure:"otel"`
}

// VPICConfig configures the upstream client.
type VPICConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Rate    float64       `mapstructure:"rate"`
	Burst   int           `mapstructure:"burst"`
}

// OTelConfig configures trace export.
type OTelConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// envBindings maps config keys to the environment variables that override
// them.
var envBindings = map[string]string{
	"port":              "PORT",
	"cors_origin":       "CORS_ORIGIN",
	"nats_url":          "NATS_URL",
	"grpc_health_port":  "GRPC_HEALTH_PORT",
	"log_file":          "LOOKUP_LOG_FILE",
	"log_level":         "LOOKUP_LOG_LEVEL",
	"vpic.base_url":     "VPIC_BASE_URL",
	"vpic.timeout":      "VPIC_TIMEOUT",
	"vpic.rate":         "VPIC_RATE",
	"vpic.burst":        "VPIC_BURST",
	"otel.endpoint":     "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otel.service_name": "OTEL_SERVICE_NAME",
	"otel.insecure":     "OTEL_EXPORTER_OTLP_INSECURE",
}

// LoadConfig reads configuration. An explicit path (or LOOKUP_CONFIG) must
// exist; otherwise ~/.config/vehicle-lookup/config.toml is read if present.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("nats_url", "")
	v.SetDefault("grpc_health_port", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("vpic.base_url", vpic.DefaultBaseURL)
	v.SetDefault("vpic.timeout", "10s")
	v.SetDefault("vpic.rate", 5.0)
	v.SetDefault("vpic.burst", 5)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service_name", "vehicle-lookup")
	v.SetDefault("otel.insecure", false)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("LOOKUP_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "vehicle-lookup"))
		v.SetConfigName("config")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.VPIC.BaseURL = strings.TrimSpace(c.VPIC.BaseURL)
	return c, nil
}
