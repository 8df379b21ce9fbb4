package seal

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the derived and generated key length.
	KeySize = 32
	// SaltSize is the salt length used for passphrase derivation.
	SaltSize = 16
	// MinPassphraseLen is the shortest accepted passphrase.
	MinPassphraseLen = 8

	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrPassphraseTooShort is returned for passphrases under
// MinPassphraseLen bytes.
var ErrPassphraseTooShort = errors.New("seal: passphrase too short")

// DeriveKey derives a KeySize-byte key from a passphrase with Argon2id.
// A nil salt means a fresh random salt; the salt actually used is
// returned and must be persisted by the caller, since decryption needs
// the same salt to reproduce the key.
func DeriveKey(passphrase, salt []byte) (key, usedSalt []byte, err error) {
	if len(passphrase) < MinPassphraseLen {
		return nil, nil, ErrPassphraseTooShort
	}
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, fmt.Errorf("seal: derive salt: %w", err)
		}
	} else if len(salt) != SaltSize {
		return nil, nil, fmt.Errorf("seal: salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	key = argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeySize)
	return key, salt, nil
}

// GenerateKey returns a fresh random KeySize-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("seal: generate key: %w", err)
	}
	return key, nil
}

// Zero overwrites key material in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
