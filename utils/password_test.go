package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	again, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash carries its own salt")

	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.True(t, VerifyPassword(again, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "correct horse batterY"))
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "whatever"))
	assert.False(t, VerifyPassword("", ""))
}

func TestUnusablePasswordHash(t *testing.T) {
	hash, err := UnusablePasswordHash()
	require.NoError(t, err)
	assert.False(t, VerifyPassword(hash, ""))
}
