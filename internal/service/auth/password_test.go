package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), ErrPasswordMismatch)

	again, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash gets its own salt")
}

func TestNewBcryptHasher_DefaultsInvalidCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-hash", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
