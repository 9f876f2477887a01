package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilderPrefix(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		expected    string
	}{
		{"development uses staging prefix", "development", "staging"},
		{"staging uses staging prefix", "staging", "staging"},
		{"test uses staging prefix", "test", "staging"},
		{"production uses prod prefix", "production", "prod"},
		{"unknown defaults to prod", "something-else", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expected, kb.GetPrefix())
		})
	}
}

func TestKeyBuilderKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:country:USA", kb.KeyCountry("USA"))
	assert.Equal(t, "prod:countries:all", kb.KeyCountriesAll())
	assert.Equal(t, "prod:country_has_votes:USA", kb.KeyHasVotes("USA"))
	assert.Equal(t, "prod:custom:42", kb.KeyCustom("custom:%d", 42))
}

func TestKeyBuilderEnvironmentIsolation(t *testing.T) {
	staging := NewKeyBuilder("staging")
	prod := NewKeyBuilder("production")

	assert.NotEqual(t, staging.KeyCountry("USA"), prod.KeyCountry("USA"))
}
