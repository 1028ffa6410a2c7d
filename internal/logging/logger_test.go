package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("generator", &buf, WARN)

	logger.Info("скрыто")
	logger.Warn("slot %s skipped", "(0,0)/0/+Z")
	logger.Error("fatal %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[WARN] [generator] slot (0,0)/0/+Z skipped")
	assert.Contains(t, out, "[ERROR] [generator] fatal 1")
}

func TestDefaultLogger_NoopWhenUninitialised(t *testing.T) {
	SetDefaultLogger(nil)
	assert.NotPanics(t, func() {
		Info("nothing %d", 1)
		Trace("nothing")
	})
}

func TestDefaultLogger_Swap(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("test", &buf, TRACE))
	defer SetDefaultLogger(nil)

	Trace("t")
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("[test]")))
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	prev := LogDir
	LogDir = dir
	defer func() { LogDir = prev }()

	logger, err := NewLogger("storage")
	require.NoError(t, err)
	logger.SetLevels(ERROR+1, TRACE)
	logger.Debug("saved batch %d", 42)
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [storage] saved batch 42")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestComponentLogger_SharesProcessSink(t *testing.T) {
	assert.Nil(t, GetComponentLogger("generator"), "без логгера процесса компонентный логгер - no-op")

	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("server", &buf, INFO))
	defer SetDefaultLogger(nil)

	gen := GetComponentLogger("generator")
	require.NotNil(t, gen)
	assert.Same(t, gen, GetComponentLogger("generator"))

	gen.Info("пакет готов")
	GetComponentLogger("storage").Warn("медленный диск")

	out := buf.String()
	assert.Contains(t, out, "[INFO] [generator] пакет готов")
	assert.Contains(t, out, "[WARN] [storage] медленный диск")
}

func TestComponentLogger_RecreatedAfterSwap(t *testing.T) {
	var first, second bytes.Buffer
	SetDefaultLogger(NewWriterLogger("a", &first, INFO))
	before := GetComponentLogger("service")

	SetDefaultLogger(NewWriterLogger("b", &second, INFO))
	defer SetDefaultLogger(nil)
	after := GetComponentLogger("service")

	assert.NotSame(t, before, after)
	after.Info("новый приёмник")
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "[service] новый приёмник")
}

func TestSetLogLevel_PerComponent(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("server", &buf, INFO))
	defer SetDefaultLogger(nil)

	lm := GetLoggerManager()
	lm.SetLogLevel("storage", ERROR)
	defer lm.SetLogLevel("storage", INFO)

	// Уровень, заданный до создания логгера, применяется при создании
	lm.SetLogLevel("generator", TRACE)
	defer lm.SetLogLevel("generator", INFO)

	GetComponentLogger("storage").Warn("скрыто")
	GetComponentLogger("generator").Trace("проём в слоте")
	GetComponentLogger("api").Debug("тоже скрыто")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[TRACE] [generator] проём в слоте")
}

func TestConfigureLevels(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("server", &buf, INFO))
	defer SetDefaultLogger(nil)
	defer GetLoggerManager().SetLogLevel("storage", INFO)

	err := ConfigureLevels("warn", map[string]string{"storage": "debug", "api": "loud"})
	assert.Error(t, err, "неизвестный уровень компонента")

	Info("процесс молчит на info")
	GetComponentLogger("storage").Debug("storage пишет debug")

	out := buf.String()
	assert.NotContains(t, out, "процесс молчит")
	assert.Contains(t, out, "[DEBUG] [storage] storage пишет debug")
}
