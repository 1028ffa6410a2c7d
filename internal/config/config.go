package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig - конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации генератора.
// Пустые секции заполняются значениями по умолчанию.
type Config struct {
	Generator  GeneratorConfig   `yaml:"generator"`
	Footprints []FootprintConfig `yaml:"footprints"`
	Textures   TexturesConfig    `yaml:"textures"`
	Assets     AssetsConfig      `yaml:"assets"`
	Storage    StorageConfig     `yaml:"storage"`
	Cache      CacheConfig       `yaml:"cache"`
	Server     ServerConfig      `yaml:"server"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Logging    LoggingConfig     `yaml:"logging"`
}

type GeneratorConfig struct {
	Seed            int64   `yaml:"seed"`
	Buildings       int     `yaml:"buildings"`
	Spacing         float64 `yaml:"spacing"`
	DoorThreshold   float64 `yaml:"door_threshold"`
	WindowThreshold float64 `yaml:"window_threshold"`
}

// FootprintConfig описывает план в конфигурации; список заменяет встроенный каталог
type FootprintConfig struct {
	Name string  `yaml:"name"`
	Grid [][]int `yaml:"grid"`
}

// TexturesConfig - по две текстуры стен и крыш, выбор делается броском монеты
type TexturesConfig struct {
	Walls [2]string `yaml:"walls"`
	Roofs [2]string `yaml:"roofs"`
}

type AssetConfig struct {
	ID     string  `yaml:"id"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

type AssetsConfig struct {
	Doors   []AssetConfig `yaml:"doors"`
	Windows []AssetConfig `yaml:"windows"`
}

type StorageConfig struct {
	Path        string `yaml:"path"`
	Compression string `yaml:"compression"` // zstd | none
}

type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	Password string        `yaml:"redis_password"`
	DB       int           `yaml:"redis_db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig - общий уровень и переопределения по компонентам
// (generator, storage, service, api), например components: {generator: debug}
type LoggingConfig struct {
	Level      string            `yaml:"level"`
	Components map[string]string `yaml:"components"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BUILDGEN_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "BUILDGEN_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию по умолчанию: 3 здания с шагом 4,
// пороги 0.3/0.6, встроенный каталог планов
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Buildings:       3,
			Spacing:         4,
			DoorThreshold:   0.3,
			WindowThreshold: 0.6,
		},
		Textures: TexturesConfig{
			Walls: [2]string{"wall_brick", "wall_plaster"},
			Roofs: [2]string{"roof_tiles", "roof_slate"},
		},
		Assets: AssetsConfig{
			Doors: []AssetConfig{
				{ID: "door_wood", Height: 0.9, Depth: 0.1},
			},
			Windows: []AssetConfig{
				{ID: "window_square", Height: 0.5, Depth: 0.1},
				{ID: "window_arched", Height: 0.6, Depth: 0.1},
			},
		},
		Storage: StorageConfig{
			Path:        "data",
			Compression: "zstd",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "buildgen",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV BUILDGEN_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BUILDGEN_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML поверх значений по умолчанию и проверяет результат
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения до построения какой-либо геометрии
func (c *Config) Validate() error {
	g := c.Generator
	if g.Buildings < 0 {
		return fmt.Errorf("%w: generator.buildings = %d", ErrInvalidConfig, g.Buildings)
	}
	if g.Spacing < 0 {
		return fmt.Errorf("%w: generator.spacing = %g", ErrInvalidConfig, g.Spacing)
	}
	if g.DoorThreshold < 0 || g.DoorThreshold > 1 || g.WindowThreshold < 0 || g.WindowThreshold > 1 {
		return fmt.Errorf("%w: thresholds must be within [0,1]", ErrInvalidConfig)
	}
	if g.DoorThreshold > g.WindowThreshold {
		return fmt.Errorf("%w: door_threshold %g > window_threshold %g", ErrInvalidConfig, g.DoorThreshold, g.WindowThreshold)
	}

	seen := make(map[string]bool)
	for _, fp := range c.Footprints {
		if fp.Name == "" {
			return fmt.Errorf("%w: footprint without name", ErrInvalidConfig)
		}
		if seen[fp.Name] {
			return fmt.Errorf("%w: duplicate footprint %q", ErrInvalidConfig, fp.Name)
		}
		seen[fp.Name] = true
	}

	ids := make(map[string]bool)
	for _, a := range append(append([]AssetConfig{}, c.Assets.Doors...), c.Assets.Windows...) {
		if a.ID == "" {
			return fmt.Errorf("%w: asset without id", ErrInvalidConfig)
		}
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate asset id %q", ErrInvalidConfig, a.ID)
		}
		ids[a.ID] = true
	}

	switch c.Storage.Compression {
	case "", "zstd", "none":
	default:
		return fmt.Errorf("%w: unknown storage.compression %q", ErrInvalidConfig, c.Storage.Compression)
	}
	return nil
}

// generationInputs - секции, от которых зависит результат генерации по сиду
type generationInputs struct {
	Spacing         float64           `yaml:"spacing"`
	DoorThreshold   float64           `yaml:"door_threshold"`
	WindowThreshold float64           `yaml:"window_threshold"`
	Footprints      []FootprintConfig `yaml:"footprints"`
	Textures        TexturesConfig    `yaml:"textures"`
	Assets          AssetsConfig      `yaml:"assets"`
}

// Fingerprint возвращает отпечаток настроек генерации (16 hex-символов).
// Пакеты с одинаковым сидом, но разными настройками получают разные отпечатки.
// Seed, число зданий, порты, хранилище и прочие служебные секции не учитываются.
func (c *Config) Fingerprint() string {
	data, err := yaml.Marshal(generationInputs{
		Spacing:         c.Generator.Spacing,
		DoorThreshold:   c.Generator.DoorThreshold,
		WindowThreshold: c.Generator.WindowThreshold,
		Footprints:      c.Footprints,
		Textures:        c.Textures,
		Assets:          c.Assets,
	})
	if err != nil {
		// структура состоит только из сериализуемых полей
		panic(fmt.Sprintf("config fingerprint: %v", err))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
