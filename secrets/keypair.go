// Package secrets holds the server's asymmetric key and the helpers used
// during the login key exchange.
package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// DefaultKeyBits is the RSA modulus size clients expect.
const DefaultKeyBits = 1024

// KeyPair is the server's RSA key together with its DER-encoded public half,
// which is what gets sent to clients.
type KeyPair struct {
	pk  *rsa.PrivateKey
	der []byte
}

// NewKeyPair wraps an existing private key.
func NewKeyPair(pk *rsa.PrivateKey) (*KeyPair, error) {
	der, err := x509.MarshalPKIXPublicKey(&pk.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling public key")
	}
	return &KeyPair{pk: pk, der: der}, nil
}

// GenerateKeyPair creates a fresh key of the given size.
func GenerateKeyPair(bits int) (*KeyPair, error) {
	if bits <= 0 {
		bits = DefaultKeyBits
	}
	pk, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrap(err, "generating rsa key")
	}
	return NewKeyPair(pk)
}

// LoadOrGenerate reads a PEM-encoded PKCS#1 key from path. If the file does
// not exist a new key is generated and saved there.
func LoadOrGenerate(path string, bits int) (*KeyPair, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		glog.Infof("no key at %s; generating a %d bit key", path, bits)
		kp, err := GenerateKeyPair(bits)
		if err != nil {
			return nil, err
		}
		block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(kp.pk)}
		if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
			return nil, errors.Wrapf(err, "saving key to %s", path)
		}
		return kp, nil
	}
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		glog.Errorf("%s does not contain an RSA private key", path)
		return nil, errors.Errorf("%s: no RSA PRIVATE KEY block", path)
	}
	pk, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return NewKeyPair(pk)
}

// PublicKey returns the DER-encoded public key.
func (k *KeyPair) PublicKey() []byte {
	return k.der
}

// Decrypt reverses a client's PKCS#1 v1.5 encryption with the public key.
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	b, err := rsa.DecryptPKCS1v15(rand.Reader, k.pk, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "rsa decrypt")
	}
	return b, nil
}
