package iphash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const (
	// Prefix tags hashed values so they are recognizable downstream.
	Prefix = "iphash:"

	digestSize = 6
)

// Hash returns a fixed-length, salted, non-reversible digest of an IP address.
// The same (ip, salt) pair always produces the same value; changing the salt
// changes the value. Output length is constant regardless of input length.
func Hash(ip, salt string) string {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// digestSize is a valid blake2b size, New cannot fail here.
		panic(err)
	}
	_, _ = h.Write([]byte(ip + "|" + salt))
	return Prefix + hex.EncodeToString(h.Sum(nil))
}
