package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "settings:name:fees", GenerateKey(EntitySettings, KeyName, "fees"))
	assert.Equal(t, "banned_words:v:7", GenerateKey(EntityBannedWords, KeyVersion, int64(7)))
}

func TestParseKey(t *testing.T) {
	entity, keyType, value, ok := ParseKey(GenerateKey(EntityBannedWords, KeyVersion, 12))
	assert.True(t, ok)
	assert.Equal(t, EntityBannedWords, entity)
	assert.Equal(t, KeyVersion, keyType)
	assert.Equal(t, "12", value)

	_, _, _, ok = ParseKey("broken")
	assert.False(t, ok)
}
