package codestats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStatsDisabled(t *testing.T) {
	a := NewAnalyzer(false)
	assert.False(t, a.IsEnabled())
	assert.Nil(t, a.FileStats("main.go", []byte("package main\n")))
}

func TestFileStatsEmptyContent(t *testing.T) {
	a := NewAnalyzer(true)
	assert.Nil(t, a.FileStats("main.go", nil))
}

func TestFileStatsUnrecognizedLanguage(t *testing.T) {
	a := NewAnalyzer(true)
	assert.Nil(t, a.FileStats("data.xyzqq", []byte("some content\n")))
}

func TestFileStatsGoSource(t *testing.T) {
	a := NewAnalyzer(true)
	content := []byte(`package main

// entry point
func main() {
	if true {
		println("hi")
	}
}
`)

	stats := a.FileStats("main.go", content)
	require.NotNil(t, stats)
	assert.Equal(t, int64(8), stats.Lines)
	assert.Equal(t, int64(6), stats.Code)
	assert.Equal(t, int64(1), stats.Comments)
	assert.Equal(t, int64(1), stats.Blanks)
	assert.GreaterOrEqual(t, stats.Complexity, int64(1))
}

func TestFileStatsPythonSource(t *testing.T) {
	a := NewAnalyzer(true)
	content := []byte(`# module docstring
import os

def run():
    return os.getcwd()
`)

	stats := a.FileStats("app.py", content)
	require.NotNil(t, stats)
	assert.Equal(t, int64(5), stats.Lines)
	assert.Greater(t, stats.Code, int64(0))
	assert.Greater(t, stats.Comments, int64(0))
}
