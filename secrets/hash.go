package secrets

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ServerHash is the digest a client and the session service agree on for
// a login: SHA-1 over the server ID, shared secret and public key, printed
// as a signed big-endian hexadecimal number without leading zeros.
func ServerHash(serverID string, secret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(secret)
	h.Write(publicKey)
	sum := h.Sum(nil)

	negative := sum[0]&0x80 != 0
	if negative {
		// two's complement
		carry := true
		for i := len(sum) - 1; i >= 0; i-- {
			sum[i] = ^sum[i]
			if carry {
				sum[i]++
				carry = sum[i] == 0
			}
		}
	}
	s := strings.TrimLeft(hex.EncodeToString(sum), "0")
	if negative {
		return "-" + s
	}
	return s
}
