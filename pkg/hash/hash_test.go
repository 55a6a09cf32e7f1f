package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$"))
	assert.NotContains(t, h, "Secret123!")

	assert.True(t, CheckPassword(h, "Secret123!"))
	assert.False(t, CheckPassword(h, "Secret123?"))
}

func TestHashPassword_SaltsEveryHash(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword_LegacyBcrypt(t *testing.T) {
	t.Parallel()

	legacy, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(string(legacy), "password"))
	assert.False(t, CheckPassword(string(legacy), "wrong"))
}

func TestCheckPassword_Malformed(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"plain",
		"$argon2id$v=19$m=1,t=1$salt$key",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$a2V5",
	}
	for _, h := range tests {
		assert.False(t, CheckPassword(h, "anything"), h)
	}
}

func TestCheckAgainstDummy_AlwaysFails(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckAgainstDummy("not-a-real-password"))
}
