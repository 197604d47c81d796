package password

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "seed password", password: "password123"},
		{name: "special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short", password: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, CompareHash(hash, tt.password))
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	h1, err := GetHash("secret")
	require.NoError(t, err)
	h2, err := GetHash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NoError(t, CompareHash(h1, "secret"))
	assert.NoError(t, CompareHash(h2, "secret"))
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("secret")
	require.NoError(t, err)

	tests := []struct {
		name    string
		hash    string
		pass    string
		wantErr error
	}{
		{name: "match", hash: correctHash, pass: "secret"},
		{name: "wrong password", hash: correctHash, pass: "wrong", wantErr: bcrypt.ErrMismatchedHashAndPassword},
		{name: "empty password", hash: correctHash, pass: "", wantErr: bcrypt.ErrMismatchedHashAndPassword},
		{name: "empty hash", hash: "", pass: "secret", wantErr: ErrEmptyHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.pass)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestCompareHash_NotAHash(t *testing.T) {
	assert.Error(t, CompareHash("plaintext-not-bcrypt", "plaintext-not-bcrypt"))
}
