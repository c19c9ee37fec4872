package main

import (
	"crypto/sha512"
	"crypto/subtle"
)

// users holds a fixed set of demo accounts, hashed the way
// original_source/examples/server.rs's Users does: SHA-512 over the raw
// password, compared with a fixed-time equality check.
type users struct {
	hashes map[string][64]byte
}

func newUsers() *users {
	return &users{hashes: make(map[string][64]byte)}
}

func (u *users) add(name, password string) {
	u.hashes[name] = sha512.Sum512([]byte(password))
}

func (u *users) verify(name, password string) bool {
	want, ok := u.hashes[name]
	if !ok {
		return false
	}
	got := sha512.Sum512([]byte(password))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}
