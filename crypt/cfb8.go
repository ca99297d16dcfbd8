package crypt

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pkg/errors"
	"golang.org/x/crypto/xtea"
)

// cfb8 is cipher feedback mode with an 8-bit segment size.
type cfb8 struct {
	block   cipher.Block
	sr      []byte
	out     []byte
	decrypt bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	bs := block.BlockSize()
	if len(iv) != bs {
		panic("crypt: IV length must equal block size")
	}
	sr := make([]byte, bs)
	copy(sr, iv)
	return &cfb8{
		block:   block,
		sr:      sr,
		out:     make([]byte, bs),
		decrypt: decrypt,
	}
}

func (x *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("crypt: output smaller than input")
	}
	for i, c := range src {
		x.block.Encrypt(x.out, x.sr)
		p := c ^ x.out[0]
		dst[i] = p
		copy(x.sr, x.sr[1:])
		if x.decrypt {
			x.sr[len(x.sr)-1] = c
		} else {
			x.sr[len(x.sr)-1] = p
		}
	}
}

// Algorithms names the supported block functions.
var Algorithms = []string{"aes", "xtea"}

// NewStreams returns the encrypting and decrypting streams for secret. The
// secret is both the key and the initial feedback register.
func NewStreams(algorithm string, secret []byte) (encrypt, decrypt cipher.Stream, err error) {
	var block cipher.Block
	switch algorithm {
	case "aes", "":
		block, err = aes.NewCipher(secret)
	case "xtea":
		block, err = xtea.NewCipher(secret)
	default:
		return nil, nil, errors.Errorf("unknown cipher %q", algorithm)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "creating %s cipher", algorithm)
	}
	iv := secret[:block.BlockSize()]
	return newCFB8(block, iv, false), newCFB8(block, iv, true), nil
}
