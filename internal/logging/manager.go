package logging

import (
	"fmt"
	"sync"
)

// LoggerManager раздаёт логгеры компонентов (generator, storage, service, api).
// Логгер компонента пишет в приёмники логгера процесса со своей меткой и своим уровнем.
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[string]*Logger),
			levels:  make(map[string]LogLevel),
		}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента.
// Пока логгер процесса не инициализирован, возвращает nil: вызовы на nil-логгере ничего не делают.
func (lm *LoggerManager) GetLogger(component string) *Logger {
	root := current()
	if root == nil {
		return nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Логгер процесса могли подменить (CLI, тесты): пересоздаём компонент поверх нового
	if logger, exists := lm.loggers[component]; exists && logger.root == root {
		return logger
	}

	logger := root.withComponent(component)
	if level, ok := lm.levels[component]; ok {
		logger.SetLevels(level, TRACE)
	}
	lm.loggers[component] = logger
	return logger
}

// SetLogLevel задаёт уровень консоли компонента. Уровень применяется к уже
// выданному логгеру и запоминается для логгеров, которые будут созданы позже.
func (lm *LoggerManager) SetLogLevel(component string, level LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.levels[component] = level
	if logger, exists := lm.loggers[component]; exists {
		logger.SetLevels(level, TRACE)
	}
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().GetLogger(component)
}

// ConfigureLevels применяет уровни из конфигурации: общий уровень логгера процесса
// и переопределения для отдельных компонентов. Неизвестный уровень - ошибка,
// остальные уровни при этом всё равно применяются.
func ConfigureLevels(level string, components map[string]string) error {
	var firstErr error

	if lvl, err := ParseLevel(level); err != nil {
		firstErr = err
	} else {
		SetDefaultLevel(lvl)
	}

	lm := GetLoggerManager()
	for component, name := range components {
		lvl, err := ParseLevel(name)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("компонент %s: %w", component, err)
			}
			continue
		}
		lm.SetLogLevel(component, lvl)
	}
	return firstErr
}
