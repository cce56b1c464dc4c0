package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultConfigPath, filepath.Join(".config", DefaultAppName)), DefaultConfigPath)
	assert.True(t, filepath.IsAbs(DefaultConfigPath), DefaultConfigPath)
}

func TestGetHomeDirFallsBackToTempDir(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("home lookup is driven by $HOME only on unix")
	}
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester", getHomeDir())

	t.Setenv("HOME", "")
	assert.Equal(t, os.TempDir(), getHomeDir())
}

func TestReservedSymbolsDiffer(t *testing.T) {
	assert.NotEqual(t, PaddingSymbol, UnknownSymbol)
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := GetLogger().Output(&buf)
	logger.Info().Str("component", "test").Msg("hello")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
