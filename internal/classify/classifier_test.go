package classify

import (
	"testing"

	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassifyByExtension(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		fileType string
		category types.FileCategory
	}{
		{"app.py", "python", types.CategorySource},
		{"index.JS", "javascript", types.CategorySource},
		{"main.go", "go", types.CategorySource},
		{"lib.rs", "rust", types.CategorySource},
		{"config.yaml", "yaml", types.CategoryConfig},
		{"settings.toml", "toml", types.CategoryConfig},
		{"data.json", "json", types.CategoryData},
		{"README.md", "markdown", types.CategoryDoc},
		{"logo.png", "image", types.CategoryBinary},
		{"lib.so", "binary", types.CategoryBinary},
	}

	for _, tt := range tests {
		fileType, category := c.Classify(tt.name, nil)
		assert.Equal(t, tt.fileType, fileType, tt.name)
		assert.Equal(t, tt.category, category, tt.name)
	}
}

func TestClassifyByFilename(t *testing.T) {
	c := New()

	fileType, category := c.Classify("go.mod", nil)
	assert.Equal(t, "gomod", fileType)
	assert.Equal(t, types.CategoryConfig, category)

	fileType, category = c.Classify("some/dir/Dockerfile", nil)
	assert.Equal(t, "dockerfile", fileType)
	assert.Equal(t, types.CategoryConfig, category)

	fileType, category = c.Classify("Makefile", nil)
	assert.Equal(t, "makefile", fileType)
	assert.Equal(t, types.CategoryConfig, category)
}

func TestClassifyUnknownWithoutSniff(t *testing.T) {
	c := New()

	fileType, category := c.Classify("mystery", nil)
	assert.Empty(t, fileType)
	assert.Equal(t, types.CategoryUnknown, category)
}

func TestClassifyShebang(t *testing.T) {
	c := New()

	tests := []struct {
		sniff    string
		fileType string
	}{
		{"#!/usr/bin/env python3\nprint('hi')\n", "python"},
		{"#!/usr/bin/python3.11\nprint('hi')\n", "python"},
		{"#!/bin/bash\necho hi\n", "shell"},
		{"#!/usr/bin/env node\nconsole.log('hi')\n", "javascript"},
	}

	for _, tt := range tests {
		fileType, category := c.Classify("runme", []byte(tt.sniff))
		assert.Equal(t, tt.fileType, fileType, tt.sniff)
		assert.Equal(t, types.CategorySource, category, tt.sniff)
	}
}

func TestClassifySniffBinary(t *testing.T) {
	c := New()

	fileType, category := c.Classify("blob", []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02})
	assert.Equal(t, "binary", fileType)
	assert.Equal(t, types.CategoryBinary, category)
}

func TestClassifySniffNeverDowngradesExtension(t *testing.T) {
	c := New()

	// Binary-looking content in a .py file stays classified by extension
	fileType, category := c.Classify("weird.py", []byte{0x00, 0x01, 0x02})
	assert.Equal(t, "python", fileType)
	assert.Equal(t, types.CategorySource, category)
}

func TestClassifyPlainTextStaysUnknown(t *testing.T) {
	c := New()

	fileType, category := c.Classify("notes", []byte("just some plain notes\nnothing special\n"))
	assert.Empty(t, fileType)
	assert.Equal(t, types.CategoryUnknown, category)
}
