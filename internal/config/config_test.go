package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevelopmentOnlyForDevelopmentEnv(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"staging", false},
		{"production", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("env="+tt.env, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			assert.Equal(t, tt.want, cfg.Development())
		})
	}
}
