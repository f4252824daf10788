package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader 按 默认值 → YAML → 环境变量 的顺序装配配置
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{envPrefix: "VIDEOFLOW"}
}

// WithConfigPath 指定 YAML 配置文件路径（可选）
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 指定环境变量前缀（默认 VIDEOFLOW）
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load 装配并校验配置
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", l.configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.configPath, err)
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv 应用环境变量覆盖。键名: <前缀>_<区段>_<字段>
func (l *Loader) applyEnv(cfg *Config) {
	if v, ok := l.lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := l.lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := l.lookupBool("TELEMETRY_ENABLED"); ok {
		cfg.Telemetry.Enabled = v
	}
	if v, ok := l.lookup("TELEMETRY_OTLP_ENDPOINT"); ok {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v, ok := l.lookup("TELEMETRY_SERVICE_NAME"); ok {
		cfg.Telemetry.ServiceName = v
	}
	if v, ok := l.lookupFloat("TELEMETRY_SAMPLE_RATE"); ok {
		cfg.Telemetry.SampleRate = v
	}
	if v, ok := l.lookupInt("SERVICE_MAX_CONCURRENT"); ok {
		cfg.Service.MaxConcurrent = v
	}
	if v, ok := l.lookup("SERVICE_DEFAULT_QUALITY"); ok {
		cfg.Service.DefaultQuality = v
	}
	if v, ok := l.lookupInt("SERVICE_METRICS_PORT"); ok {
		cfg.Service.MetricsPort = v
	}
}

func (l *Loader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(l.envPrefix + "_" + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (l *Loader) lookupBool(key string) (bool, bool) {
	v, ok := l.lookup(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func (l *Loader) lookupInt(key string) (int, bool) {
	v, ok := l.lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (l *Loader) lookupFloat(key string) (float64, bool) {
	v, ok := l.lookup(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
