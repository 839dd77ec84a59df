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

// KeyReceiptSeen returns the cache key marking a receipt number as present in the ledger
func (kb *KeyBuilder) KeyReceiptSeen(receiptNumber string) string {
	return kb.BuildKey(fmt.Sprintf(KeyReceiptSeen, receiptNumber))
}

// KeyWinnerList returns the cache key for the winners projection
func (kb *KeyBuilder) KeyWinnerList() string {
	return kb.BuildKey(KeyWinnerList)
}

// KeyIdempotency returns the in-flight guard key for a receipt number
func (kb *KeyBuilder) KeyIdempotency(receiptNumber string) string {
	return kb.BuildKey(fmt.Sprintf(KeyIdempotency, receiptNumber))
}

// KeyCustom builds an environment-prefixed key from an arbitrary pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
