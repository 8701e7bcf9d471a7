package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default is info", Config{}, "info"},
		{"verbose means debug", Config{Verbose: true}, "debug"},
		{"quiet means warn", Config{Quiet: true}, "warn"},
		{"quiet beats verbose", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit level wins over flags", Config{LogLevel: "error", Verbose: true}, "error"},
		{"invalid explicit level falls back", Config{LogLevel: "loud"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Equal(t, level, validateLogLevel(level))
	}
	assert.Equal(t, "info", validateLogLevel("bogus"))
	assert.Equal(t, "info", validateLogLevel(""))
}
