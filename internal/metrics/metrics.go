package metrics

import (
	"net/http"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GenerationMetrics инкапсулирует Prometheus-метрики генератора и реализует building.Recorder.
type GenerationMetrics struct {
	buildings prometheus.Counter
	cells     prometheus.Counter
	openings  *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	duration  prometheus.Histogram
	gatherer  prometheus.Gatherer
}

var _ building.Recorder = (*GenerationMetrics)(nil)

// NewGenerationMetrics создаёт метрики и регистрирует их в reg.
// Если reg == nil, используется новый изолированный регистр.
func NewGenerationMetrics(reg *prometheus.Registry) *GenerationMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	gm := &GenerationMetrics{
		buildings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buildgen",
			Name:      "buildings_generated_total",
			Help:      "Общее число сгенерированных зданий.",
		}),
		cells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buildgen",
			Name:      "cells_generated_total",
			Help:      "Общее число построенных клеток (куб + крыша).",
		}),
		openings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildgen",
			Name:      "openings_placed_total",
			Help:      "Размещённые проёмы по классу.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildgen",
			Name:      "placements_skipped_total",
			Help:      "Размещения, пропущенные из-за отсутствия габаритов ассета.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buildgen",
			Name:      "generation_duration_seconds",
			Help:      "Длительность генерации одного здания.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		gatherer: reg,
	}

	reg.MustRegister(gm.buildings, gm.cells, gm.openings, gm.skipped, gm.duration)
	return gm
}

// BuildingGenerated реализует building.Recorder
func (m *GenerationMetrics) BuildingGenerated(b *building.Building, elapsed time.Duration) {
	m.buildings.Inc()
	m.cells.Add(float64(len(b.Heights)))
	m.duration.Observe(elapsed.Seconds())
}

// OpeningPlaced реализует building.Recorder
func (m *GenerationMetrics) OpeningPlaced(o *opening.Opening) {
	m.openings.WithLabelValues(o.Kind.String()).Inc()
}

// PlacementSkipped реализует building.Recorder
func (m *GenerationMetrics) PlacementSkipped(err *opening.PlacementError) {
	m.skipped.WithLabelValues(err.Kind.String()).Inc()
}

// Handler возвращает HTTP-обработчик /metrics для регистра метрик
func (m *GenerationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (m *GenerationMetrics) StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
