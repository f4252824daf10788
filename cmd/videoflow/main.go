// =============================================================================
// videoflow 主入口
// =============================================================================
// 演示入口点：加载配置、注册 stub 供应商、跑通一次完整生成流水线，
// 并暴露 Prometheus 指标
//
// 使用方法:
//
//	videoflow -config config.yaml -channel fire -topic "7 分钟高强度 workout"
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/BaSui01/videoflow/channel"
	"github.com/BaSui01/videoflow/config"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/internal/telemetry"
	"github.com/BaSui01/videoflow/providers/stub"
	"github.com/BaSui01/videoflow/registry"
	"github.com/BaSui01/videoflow/script"
	"github.com/BaSui01/videoflow/service"
	"github.com/BaSui01/videoflow/types"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML 配置文件路径")
		channelName = flag.String("channel", "fire", "目标频道")
		topic       = flag.String("topic", "5 minute morning workout challenge", "视频主题")
		quality     = flag.String("quality", "", "质量档位（默认取配置）")
	)
	flag.Parse()

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Fatal("init telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector(cfg.Service.MetricsNamespace, logger)
	go serveMetrics(cfg.Service.MetricsPort, logger)

	reg := registry.New(logger,
		registry.WithScoreWeights(cfg.Scoring),
		registry.WithCollector(collector),
	)
	registerProviders(reg, cfg, logger)

	svc := service.New(
		script.NewParser(logger),
		channel.NewStrategies(cfg.Channels, logger),
		reg,
		logger,
		service.WithCollector(collector),
		service.WithMaxConcurrent(cfg.Service.MaxConcurrent),
	)

	tier := types.QualityTier(cfg.Service.DefaultQuality)
	if *quality != "" {
		tier = types.QualityTier(*quality)
	}

	raw := map[string]any{
		"topic": *topic,
		"hook":  "Stop scrolling. This one actually works.",
		"main_points": []any{
			"Set a timer before you start",
			"Do the hard part first",
			"Track the streak, not the result",
		},
		"call_to_action": "Follow for tomorrow's routine!",
	}

	ctx := context.Background()
	res := svc.Generate(ctx, raw, *channelName, tier, "", nil)
	logger.Info("dispatched",
		zap.String("video_id", res.ID),
		zap.String("status", string(res.Status)),
		zap.String("provider", res.ProviderID))

	// 轮询直到终态
	for !res.Status.Terminal() {
		time.Sleep(100 * time.Millisecond)
		res = svc.Status(ctx, res.ID, "")
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))

	if res.Status != types.StatusCompleted {
		os.Exit(1)
	}
}

// buildLogger 根据配置构建 zap logger
func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// registerProviders 注册配置中的 stub 供应商；无配置时注册两个默认实例
func registerProviders(reg *registry.Registry, cfg *config.Config, logger *zap.Logger) {
	if len(cfg.Providers) == 0 {
		fast := stub.DefaultConfig("stub-fast")
		premium := stub.DefaultConfig("stub-premium")
		premium.Name = "Stub Renderer premium"
		premium.SupportedTiers = types.AllQualityTiers()
		premium.CostPerSecond = 0.4
		premium.AvgGenerationTime = 45 * time.Second
		premium.Capabilities = types.NewCapabilitySet(types.AllCapabilities()...)
		reg.Register(stub.New(fast, logger))
		reg.Register(stub.New(premium, logger))
		return
	}

	for _, pc := range cfg.Providers {
		reg.Register(stub.New(toStubConfig(pc), logger))
	}
}

// toStubConfig 将配置记录转换为 stub.Config
func toStubConfig(pc config.ProviderConfig) stub.Config {
	caps := types.NewCapabilitySet()
	for _, c := range pc.Capabilities {
		caps.Add(types.Capability(c))
	}
	tiers := make([]types.QualityTier, 0, len(pc.SupportedTiers))
	for _, t := range pc.SupportedTiers {
		tiers = append(tiers, types.QualityTier(t))
	}
	sc := stub.Config{
		ID:                 pc.ID,
		Name:               pc.Name,
		Capabilities:       caps,
		SupportedTiers:     tiers,
		MaxDurationSeconds: pc.MaxDurationSeconds,
		CostPerSecond:      pc.CostPerSecond,
		AvgGenerationTime:  pc.AvgGenerationTime,
		Available:          pc.Available,
		RenderDuration:     pc.RenderDuration,
		CancelableWindow:   pc.CancelableWindow,
		FailureRate:        pc.FailureRate,
	}
	if pc.OptimizedChannel != "" {
		sc.Metadata = map[string]string{registry.MetadataOptimizedChannel: pc.OptimizedChannel}
	}
	if sc.RenderDuration <= 0 {
		sc.RenderDuration = 200 * time.Millisecond
	}
	if sc.CancelableWindow <= 0 {
		sc.CancelableWindow = sc.RenderDuration / 2
	}
	return sc
}

// serveMetrics 暴露 Prometheus /metrics
func serveMetrics(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics endpoint stopped", zap.Error(err))
	}
}
