// =============================================================================
// videoflow 配置结构
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("VIDEOFLOW").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"time"

	"github.com/BaSui01/videoflow/channel"
	"github.com/BaSui01/videoflow/registry"
)

// Config 是 videoflow 的完整配置结构
type Config struct {
	// Log 日志配置
	Log LogConfig `yaml:"log"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Service 生成服务配置
	Service ServiceConfig `yaml:"service"`

	// Scoring 供应商评分权重
	Scoring registry.ScoreWeights `yaml:"scoring"`

	// Channels 频道策略表（数据驱动，可增删频道而无需改代码）
	Channels []channel.Profile `yaml:"channels"`

	// Providers 演示用 stub 供应商配置
	Providers []ProviderConfig `yaml:"providers"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug/info/warn/error
	Level string `yaml:"level"`
	// 输出格式: json/console
	Format string `yaml:"format"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// ServiceConfig 生成服务配置
type ServiceConfig struct {
	// 批量提交默认并发上限
	MaxConcurrent int `yaml:"max_concurrent"`
	// 默认质量档位
	DefaultQuality string `yaml:"default_quality"`
	// Prometheus 指标命名空间
	MetricsNamespace string `yaml:"metrics_namespace"`
	// Prometheus /metrics 端口（cmd 使用）
	MetricsPort int `yaml:"metrics_port"`
}

// ProviderConfig 描述一个 stub 供应商；cmd 层将其转换为 stub.Config
type ProviderConfig struct {
	ID                 string        `yaml:"id"`
	Name               string        `yaml:"name"`
	Capabilities       []string      `yaml:"capabilities"`
	SupportedTiers     []string      `yaml:"supported_tiers"`
	MaxDurationSeconds int           `yaml:"max_duration_seconds"`
	CostPerSecond      float64       `yaml:"cost_per_second"`
	AvgGenerationTime  time.Duration `yaml:"avg_generation_time"`
	Available          bool          `yaml:"available"`
	OptimizedChannel   string        `yaml:"optimized_channel"`
	// 模拟渲染时长与可取消窗口
	RenderDuration   time.Duration `yaml:"render_duration"`
	CancelableWindow time.Duration `yaml:"cancelable_window"`
	FailureRate      float64       `yaml:"failure_rate"`
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "videoflow",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Service: ServiceConfig{
			MaxConcurrent:    3,
			DefaultQuality:   "standard",
			MetricsNamespace: "videoflow",
			MetricsPort:      9090,
		},
		Scoring:  registry.DefaultScoreWeights(),
		Channels: channel.BuiltinProfiles(),
	}
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if c.Service.MaxConcurrent <= 0 {
		return fmt.Errorf("service.max_concurrent must be positive, got %d", c.Service.MaxConcurrent)
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("telemetry.otlp_endpoint is required when telemetry is enabled")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be in [0,1], got %v", c.Telemetry.SampleRate)
	}
	seen := make(map[string]bool, len(c.Channels))
	for _, p := range c.Channels {
		if p.Name == "" {
			return fmt.Errorf("channel profile with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate channel profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
