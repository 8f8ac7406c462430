package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "brandplan"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionKey is where the serialized session lives.
func SessionKey(sessionID string) string {
	return GenerateCacheKey("session", "state", sessionID)
}

// GenerationLockKey guards the single in-flight plan generation of a session.
func GenerationLockKey(sessionID string) string {
	return GenerateCacheKey("session", "generation_lock", sessionID)
}

// DraftLockKey guards the in-flight draft generation of one task of one
// installed plan.
func DraftLockKey(sessionID, planID, task string) string {
	return GenerateCacheKey("session", "draft_lock", sessionID, planID, HashString(task))
}

// HashString returns the hex sha256 of s, used to keep free text out of keys.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DraftKey holds the last generated draft of one task. The plan ID is part
// of the key so a new plan never serves drafts written for an older input.
func DraftKey(sessionID, planID, task string) string {
	return GenerateCacheKey("session", "draft", sessionID, planID, HashString(task))
}
