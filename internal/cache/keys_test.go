package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	keySessionID = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"
	keyPlanID    = "01HGZ8VNRYXS8QKNJV5GRWPWDB"
	keyTask      = "Atualizar a foto de perfil"
)

func TestSessionKeys(t *testing.T) {
	taskHash := HashString(keyTask)

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "session state",
			key:      SessionKey(keySessionID),
			expected: "brandplan:session:state:" + keySessionID,
		},
		{
			name:     "plan generation lock",
			key:      GenerationLockKey(keySessionID),
			expected: "brandplan:session:generation_lock:" + keySessionID,
		},
		{
			name:     "draft lock",
			key:      DraftLockKey(keySessionID, keyPlanID, keyTask),
			expected: "brandplan:session:draft_lock:" + keySessionID + ":" + keyPlanID + "_" + taskHash,
		},
		{
			name:     "draft",
			key:      DraftKey(keySessionID, keyPlanID, keyTask),
			expected: "brandplan:session:draft:" + keySessionID + ":" + keyPlanID + "_" + taskHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key)
		})
	}
}

func TestDraftKeys_Scope(t *testing.T) {
	base := DraftKey(keySessionID, keyPlanID, keyTask)

	assert.Equal(t, base, DraftKey(keySessionID, keyPlanID, keyTask), "stable for the same task")
	assert.NotEqual(t, base, DraftKey(keySessionID, keyPlanID, "Publicar um case de sucesso"), "one key per task")
	assert.NotEqual(t, base, DraftKey(keySessionID, "01HGZ8VNRYXS8QKNJV5GRWPWDC", keyTask), "one key per installed plan")
	assert.NotEqual(t, base, DraftKey("01HGZ8VNRYXS8QKNJV5GRWPWDR", keyPlanID, keyTask), "one key per session")
	assert.NotEqual(t, base, DraftLockKey(keySessionID, keyPlanID, keyTask), "lock and draft never share a key")
	assert.NotContains(t, base, keyTask, "free text stays out of keys")
}

func TestHashString(t *testing.T) {
	assert.Len(t, HashString(keyTask), 64)
	assert.Equal(t, HashString(keyTask), HashString(keyTask))
	assert.NotEqual(t, HashString(keyTask), HashString(keyTask+" "))
}
