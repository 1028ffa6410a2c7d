package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/footprint"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/annel0/buildgen/internal/mesh"
	"github.com/annel0/buildgen/internal/middleware"
	"github.com/annel0/buildgen/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// BuildingProvider - операции сервиса, которые нужны REST слою
type BuildingProvider interface {
	GenerateBatch(ctx context.Context, seed int64, count int) ([]*building.Building, error)
	Building(ctx context.Context, seed int64, index int) (*building.Building, error)
	Footprints() []*footprint.Footprint
}

// RestServer представляет REST API сервер
type RestServer struct {
	router       *gin.Engine
	buildings    BuildingProvider
	port         string
	defaultCount int
	metrics      *ServerMetrics
	httpServer   *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port         string               // порт для запуска сервера, например ":8088"
	Buildings    BuildingProvider     // сервис генерации
	DefaultCount int                  // число зданий, если в запросе не указано
	Registry     *prometheus.Registry // регистр HTTP-метрик и /metrics
	ServiceName  string               // имя сервиса для otelgin
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.ServiceName == "" {
		config.ServiceName = "buildgen"
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(middleware.NewRequestLogger(logging.GetComponentLogger("api")).Handler())

	promMw := middleware.NewPrometheusMiddleware("buildgen", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:       router,
		buildings:    config.Buildings,
		port:         config.Port,
		defaultCount: config.DefaultCount,
		metrics:      NewServerMetrics(),
	}

	server.setupRoutes()
	return server
}

// Router возвращает gin.Engine (для тестов и встраивания)
func (rs *RestServer) Router() *gin.Engine {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.GET("/footprints", rs.handleFootprints)
		api.POST("/buildings", rs.handleGenerate)
		api.GET("/buildings/:seed/:index", rs.handleBuilding)
		api.GET("/buildings/:seed/:index/obj", rs.handleBuildingOBJ)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Start запускает HTTP сервер в отдельной горутине
func (rs *RestServer) Start() {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()

	logging.Info("✅ REST API сервер запущен на http://localhost%s", rs.port)
	logging.Info("📋 Доступные эндпоинты:")
	logging.Info("   GET  /health                          - Проверка состояния")
	logging.Info("   GET  /api/footprints                  - Каталог планов")
	logging.Info("   POST /api/buildings                   - Генерация пакета")
	logging.Info("   GET  /api/buildings/:seed/:index      - Здание (JSON)")
	logging.Info("   GET  /api/buildings/:seed/:index/obj  - Здание (Wavefront OBJ)")
	logging.Info("   GET  /metrics                         - Prometheus")
}

// Stop останавливает HTTP сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}

	logging.Info("🛑 Остановка REST API сервера...")
	if err := rs.httpServer.Shutdown(ctx); err != nil {
		logging.Error("❌ Ошибка при остановке HTTP сервера: %v", err)
		return err
	}
	logging.Info("✅ REST API сервер остановлен")
	return nil
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	cpuPercent, _ := rs.metrics.GetCPUUsage()

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"time":        time.Now().Unix(),
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   fmt.Sprintf("%.1f", rs.metrics.GetMemoryUsage()),
		"cpu_percent": fmt.Sprintf("%.1f", cpuPercent),
	})
}

// handleFootprints возвращает каталог планов в порядке выбора
func (rs *RestServer) handleFootprints(c *gin.Context) {
	fps := rs.buildings.Footprints()
	out := make([]FootprintDTO, 0, len(fps))
	for _, fp := range fps {
		out = append(out, footprintDTO(fp))
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Каталог планов",
		Data:    out,
	})
}

// handleGenerate строит пакет зданий по сиду
func (rs *RestServer) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	count := rs.defaultCount
	if req.Count != nil {
		count = *req.Count
	}

	buildings, err := rs.buildings.GenerateBatch(c.Request.Context(), req.Seed, count)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	resp := BatchResponse{
		Seed:    req.Seed,
		Count:   len(buildings),
		Summary: make([]BuildingSummary, 0, len(buildings)),
	}
	for _, b := range buildings {
		resp.Summary = append(resp.Summary, summarize(b))
	}
	if c.Query("full") == "true" {
		resp.Buildings = buildings
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: fmt.Sprintf("Сгенерировано зданий: %d", len(buildings)),
		Data:    resp,
	})
}

// handleBuilding возвращает здание целиком в JSON
func (rs *RestServer) handleBuilding(c *gin.Context) {
	b, ok := rs.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Здание " + b.ID,
		Data:    b,
	})
}

// handleBuildingOBJ отдаёт меш здания в формате Wavefront OBJ
func (rs *RestServer) handleBuildingOBJ(c *gin.Context) {
	b, ok := rs.lookup(c)
	if !ok {
		return
	}

	name := fmt.Sprintf("building_%d", b.Index)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".obj"))
	c.Header("Content-Type", "model/obj")
	c.Status(http.StatusOK)
	if err := mesh.WriteOBJ(c.Writer, b.Mesh, name); err != nil {
		logging.Error("Ошибка записи OBJ для %s: %v", b.ID, err)
	}
}

// lookup разбирает :seed/:index и получает здание; при ошибке ответ уже записан
func (rs *RestServer) lookup(c *gin.Context) (*building.Building, bool) {
	seed, err := strconv.ParseInt(c.Param("seed"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный seed"})
		return nil, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный index"})
		return nil, false
	}

	b, err := rs.buildings.Building(c.Request.Context(), seed, index)
	if err != nil {
		rs.writeError(c, err)
		return nil, false
	}
	return b, true
}

// writeError переводит ошибки сервиса в HTTP-статусы
func (rs *RestServer) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrBusy):
		status = http.StatusTooManyRequests
	default:
		logging.Error("Ошибка обработки запроса %s: %v", c.Request.URL.Path, err)
	}

	c.JSON(status, GenericResponse{
		Success: false,
		Message: err.Error(),
	})
}
