package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeySchemaDefaultPrefix(t *testing.T) {
	keys := NewKeySchema("")
	uid := uuid.MustParse("3f2b8c9e-5a71-4d2b-9c64-8f1a2b3c4d5e")

	assert.Equal(t,
		"auth:jwt-tokens:access-token:3f2b8c9e-5a71-4d2b-9c64-8f1a2b3c4d5e:tok",
		keys.UserAccessTokenKey(uid, "tok"))
	assert.Equal(t,
		"auth:jwt-tokens:refresh-token:3f2b8c9e-5a71-4d2b-9c64-8f1a2b3c4d5e:tok",
		keys.UserRefreshTokenKey(uid, "tok"))
}

func TestKeySchemaCustomPrefix(t *testing.T) {
	keys := NewKeySchema("identity:tokens")
	uid := uuid.New()

	assert.Equal(t,
		"identity:tokens:access-token:"+uid.String()+":tok",
		keys.UserAccessTokenKey(uid, "tok"))
}

func TestKeySchemaIsDeterministic(t *testing.T) {
	keys := NewKeySchema("")
	uid := uuid.New()

	assert.Equal(t, keys.UserRefreshTokenKey(uid, "tok"), keys.UserRefreshTokenKey(uid, "tok"))
}

func TestKeySchemaDistinguishesTokens(t *testing.T) {
	keys := NewKeySchema("")
	uid := uuid.New()

	assert.NotEqual(t, keys.UserRefreshTokenKey(uid, "tok1"), keys.UserRefreshTokenKey(uid, "tok2"))
	assert.NotEqual(t, keys.UserAccessTokenKey(uid, "tok"), keys.UserRefreshTokenKey(uid, "tok"))
}
