package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.NoError(t, CompareHash(hash, "secret-password"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestGetHashIsSalted(t *testing.T) {
	first, err := GetHash("secret-password")
	require.NoError(t, err)
	second, err := GetHash("secret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGetHashTooLongPassword(t *testing.T) {
	// bcrypt ограничивает вход 72 байтами
	_, err := GetHash(strings.Repeat("a", 100))
	assert.Error(t, err)
}
