// Package seal provides authenticated encryption for snapshot payloads.
//
// It offers AES-GCM and ChaCha20-Poly1305 behind one interface and can
// pick between them based on the host: AES-GCM where the architecture
// has hardware AES, ChaCha20-Poly1305 elsewhere. Keys may be supplied
// raw or derived from a passphrase with Argon2id.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies a sealing algorithm.
type Algorithm string

const (
	AESGCM           Algorithm = "aes-gcm"
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

var (
	// ErrKeySize is returned for keys the chosen algorithm cannot use.
	ErrKeySize = errors.New("seal: invalid key size")
	// ErrTooShort is returned when a sealed payload is shorter than a
	// nonce.
	ErrTooShort = errors.New("seal: sealed payload too short")
)

// Sealer seals and opens byte payloads with authenticated encryption.
type Sealer interface {
	// Algorithm identifies the sealing algorithm in use.
	Algorithm() Algorithm

	// Seal encrypts and authenticates plaintext. The additional data is
	// authenticated but not encrypted; pass the same bytes to Open.
	Seal(plaintext, additional []byte) ([]byte, error)

	// Open authenticates and decrypts a payload produced by Seal.
	Open(sealed, additional []byte) ([]byte, error)
}

// New picks the best algorithm for the host: AES-GCM on architectures
// with hardware AES (amd64, arm64), ChaCha20-Poly1305 everywhere else.
func New(key []byte) (Sealer, error) {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return NewAESGCM(key)
	default:
		return NewChaCha20(key)
	}
}

// ForAlgorithm constructs a sealer for an explicitly named algorithm.
func ForAlgorithm(alg Algorithm, key []byte) (Sealer, error) {
	switch alg {
	case AESGCM:
		return NewAESGCM(key)
	case ChaCha20Poly1305:
		return NewChaCha20(key)
	default:
		return nil, fmt.Errorf("seal: unknown algorithm %q", alg)
	}
}

// NewAESGCM returns an AES-GCM sealer. The key must be 16, 24 or 32
// bytes.
func NewAESGCM(key []byte) (Sealer, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: AES-GCM needs 16, 24 or 32 bytes, got %d", ErrKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aeadSealer{aead: aead, alg: AESGCM}, nil
}

// NewChaCha20 returns a ChaCha20-Poly1305 sealer. The key must be 32
// bytes.
func NewChaCha20(key []byte) (Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: ChaCha20-Poly1305 needs %d bytes, got %d",
			ErrKeySize, chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &aeadSealer{aead: aead, alg: ChaCha20Poly1305}, nil
}

// aeadSealer prefixes each sealed payload with a fresh random nonce.
type aeadSealer struct {
	aead cipher.AEAD
	alg  Algorithm
}

func (s *aeadSealer) Algorithm() Algorithm { return s.alg }

func (s *aeadSealer) Seal(plaintext, additional []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("seal: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, additional), nil
}

func (s *aeadSealer) Open(sealed, additional []byte) ([]byte, error) {
	if len(sealed) < s.aead.NonceSize() {
		return nil, ErrTooShort
	}
	nonce, rest := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, rest, additional)
	if err != nil {
		return nil, fmt.Errorf("seal: open: %w", err)
	}
	return plain, nil
}
