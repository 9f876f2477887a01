package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyCountry builds the per-code metadata cache key
func (kb *KeyBuilder) KeyCountry(code string) string {
	return kb.BuildKey(fmt.Sprintf(KeyCountry, code))
}

// KeyCountriesAll builds the full reference list cache key
func (kb *KeyBuilder) KeyCountriesAll() string {
	return kb.BuildKey(KeyCountriesAll)
}

// KeyHasVotes builds the advisory has-votes flag key for a country
func (kb *KeyBuilder) KeyHasVotes(code string) string {
	return kb.BuildKey(fmt.Sprintf(KeyHasVotes, code))
}

// KeyCustom builds a key from a custom pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
