package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"text", "text"},
		{"JSON", "json"},
		{"Yaml", "yaml"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeFormat(tt.in))
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"text", false},
		{"xml", true},
		{"csv", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validateOutputFormat(tt.format)
		if tt.wantErr {
			assert.Error(t, err, tt.format)
		} else {
			assert.NoError(t, err, tt.format)
		}
	}
}
