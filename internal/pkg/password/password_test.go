//go:build unit

package password_test

import (
	"strings"
	"testing"

	"shop-order-engine/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := password.Hash("password123")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", hash)
		assert.NoError(t, password.Verify(hash, "password123"))
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := password.Hash("password123")
		require.NoError(t, err)
		assert.ErrorIs(t, password.Verify(hash, "password124"), password.ErrMismatch)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := password.Hash("")
		assert.ErrorIs(t, err, password.ErrInvalidPassword)
	})

	t.Run("password past the bcrypt limit is rejected", func(t *testing.T) {
		_, err := password.Hash(strings.Repeat("a", 73))
		assert.ErrorIs(t, err, password.ErrInvalidPassword)
	})
}
