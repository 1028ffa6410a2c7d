package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/buildgen/internal/api"
	"github.com/annel0/buildgen/internal/cache"
	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/metrics"
	"github.com/annel0/buildgen/internal/observability"
	"github.com/annel0/buildgen/internal/service"
	"github.com/annel0/buildgen/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $BUILDGEN_CONFIG)")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if err := logging.ConfigureLevels(cfg.Logging.Level, cfg.Logging.Components); err != nil {
		logging.Warn("⚠️ Уровни логирования: %v", err)
	}

	logging.Info("🏗️ Запуск сервера генерации зданий...")

	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.Warn("OpenTelemetry недоступен: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === МЕТРИКИ ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	genMetrics := metrics.NewGenerationMetrics(registry)
	metricsServer := genMetrics.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))

	// === ХРАНИЛИЩЕ И КЕШ ===
	opts := []service.Option{}

	codec, err := storage.NewCodec(cfg.Storage.Compression)
	if err != nil {
		log.Fatalf("❌ Ошибка кодека хранилища: %v", err)
	}
	store, err := storage.NewBuildingStore(cfg.Storage.Path, codec, cfg.Fingerprint())
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()
	opts = append(opts, service.WithStore(store))

	var buildingCache cache.BuildingCache = cache.NewMemoryCache()
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisURL,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logging.Warn("⚠️ Redis недоступен, используется кеш в памяти: %v", err)
		} else {
			buildingCache = redisCache
		}
	}
	defer buildingCache.Close()
	opts = append(opts, service.WithCache(buildingCache, cfg.Cache.TTL))

	svc, err := service.New(cfg, genMetrics, opts...)
	if err != nil {
		log.Fatalf("❌ Ошибка создания сервиса: %v", err)
	}

	// === REST API ===
	restServer := api.NewRestServer(api.Config{
		Port:         fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Buildings:    svc,
		DefaultCount: cfg.Generator.Buildings,
		Registry:     registry,
		ServiceName:  cfg.Telemetry.ServiceName,
	})
	restServer.Start()

	logging.Info("💡 Пример: curl -X POST http://localhost:%d/api/buildings -d '{\"seed\":42,\"count\":3}'", cfg.Server.GetRESTPort())

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := restServer.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки /metrics: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки OpenTelemetry: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}
