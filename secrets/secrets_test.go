package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerHash(t *testing.T) {
	tests := map[string]string{
		"Notch": "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48",
		"jeb_":  "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1",
		"simon": "88e16a1019277b15d58faf0541e11910eb756f6",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ServerHash(in, nil, nil))
		})
	}
	assert.Equal(t, ServerHash("", []byte("Not"), []byte("ch")), ServerHash("Notch", nil, nil))
}

func TestKeyPairDecrypt(t *testing.T) {
	kp, err := GenerateKeyPair(1024)
	require.NoError(t, err)

	pub, err := x509.ParsePKIXPublicKey(kp.PublicKey())
	require.NoError(t, err)
	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)

	secret := []byte("0123456789abcdef")
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, secret)
	require.NoError(t, err)
	got, err := kp.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, secret, got)

	_, err = kp.Decrypt([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestLoadOrGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pem")
	first, err := LoadOrGenerate(path, 1024)
	require.NoError(t, err)
	second, err := LoadOrGenerate(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey(), second.PublicKey())
}
