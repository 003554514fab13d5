package cryptox_test

import (
	"strings"
	"testing"

	"github.com/oneclicklabs/oneclick-access/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	encoded, err := cryptox.HashSecret("super-secret-value")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifySecret("super-secret-value", encoded))
	require.ErrorIs(t, cryptox.VerifySecret("wrong", encoded), cryptox.ErrSecretMismatch)
}

func TestVerifySecretRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	require.Error(t, cryptox.VerifySecret("x", "not-a-phc-string"))
	require.Error(t, cryptox.VerifySecret("x", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"))
}

func TestHashSecretIsSalted(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashSecret("same")
	require.NoError(t, err)
	b, err := cryptox.HashSecret("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestConstantTimeEquals(t *testing.T) {
	t.Parallel()

	require.True(t, cryptox.ConstantTimeEquals("abc", "abc"))
	require.False(t, cryptox.ConstantTimeEquals("abc", "abd"))
	require.False(t, cryptox.ConstantTimeEquals("abc", "abcd"))
}
