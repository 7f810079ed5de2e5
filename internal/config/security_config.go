package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetTokenExpiry() time.Duration
	GetServiceKey() string
	GetServiceKeyHash() []byte
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret is the HMAC key for session tokens. Every instance
// behind the load balancer must share it.
func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Security) GetTokenExpiry() time.Duration {
	return 1 * time.Hour
}

// GetServiceKey is the plaintext key sent to sibling services on outbound
// calls.
func (Security) GetServiceKey() string {
	return GetEnv("SERVICE_KEY", "")
}

// GetServiceKeyHash is the bcrypt hash that inbound X-Secret-Key values
// are compared against.
func (Security) GetServiceKeyHash() []byte {
	return []byte(GetEnv("SERVICE_KEY_HASH", ""))
}
