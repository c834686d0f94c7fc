package cache

import "fmt"

type EntityType string

const (
	EntityIdentity EntityType = "identity"
	EntityLock     EntityType = "lock"
)

type KeyType string

const (
	KeyTokenVersion        KeyType = "token_version"
	KeyVerificationPayment KeyType = "verification_payment"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}
