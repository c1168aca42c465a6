package user

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))

	other, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts must differ")
}

func TestCheckPassword(t *testing.T) {
	v2, err := HashPassword("secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		version  PasswordVersion
		hash     string
		password string
		want     bool
		wantErr  error
	}{
		{"argon2id match", PasswordArgon2id, v2, "secret", true, nil},
		{"argon2id mismatch", PasswordArgon2id, v2, "wrong", false, nil},
		{"legacy match", PasswordLegacySHA256, legacyHash("secret"), "secret", true, nil},
		{"legacy uppercase digest", PasswordLegacySHA256, strings.ToUpper(legacyHash("secret")), "secret", true, nil},
		{"legacy mismatch", PasswordLegacySHA256, legacyHash("secret"), "wrong", false, nil},
		{"legacy digest is not argon2id", PasswordArgon2id, legacyHash("secret"), "secret", false, ErrMalformedHash},
		{"argon2id hash is not legacy", PasswordLegacySHA256, v2, "secret", false, nil},
		{"unknown version", PasswordVersion(3), v2, "secret", false, ErrUnknownHashVersion},
		{"bad salt", PasswordArgon2id, "$argon2id$v=19$m=19456,t=2,p=1$!!$abc", "secret", false, ErrMalformedHash},
		{"bad params", PasswordArgon2id, "$argon2id$v=19$m=x$abc$abc", "secret", false, ErrMalformedHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := CheckPassword(tt.version, tt.hash, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
		})
	}
}
