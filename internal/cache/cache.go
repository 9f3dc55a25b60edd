package cache

import (
	"context"
	"time"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
}

// CapabilityKey is the cache key for a user's resolved capability set.
func CapabilityKey(userID string) string {
	return "caps:" + userID
}

// EmergencySlotKey is the cache key for a doctor's ad hoc slots on a date
// (YYYY-MM-DD).
func EmergencySlotKey(doctorID, date string) string {
	return "emslot:" + doctorID + ":" + date
}

// EmergencySlotPattern matches every emergency-slot key for a doctor.
func EmergencySlotPattern(doctorID string) string {
	return "emslot:" + doctorID + ":*"
}
