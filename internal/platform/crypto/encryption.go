package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var (
	ErrNotConfigured      = errors.New("encryption key not configured")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Service seals short secrets (the backend bearer token) with AES-256-GCM.
type Service struct {
	key []byte
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(decoded) != keySize {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	return &Service{key: decoded}, nil
}

// Derive expands secret into a sealing key with HKDF-SHA256. The info label
// keeps derived keys for different purposes apart.
func Derive(secret, info string) (*Service, error) {
	if secret == "" {
		return nil, ErrNotConfigured
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, err
	}
	return &Service{key: key}, nil
}

// NewOrDerive uses key when set and otherwise derives one from secret.
func NewOrDerive(key, secret, info string) (*Service, error) {
	if key != "" {
		return New(key)
	}
	return Derive(secret, info)
}

func (s *Service) Configured() bool {
	return s != nil && len(s.key) == keySize
}

func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := gcm.Seal(nil, nonce, plain, nil)
	return append(nonce, ciphertext...), nil
}

func (s *Service) Decrypt(ciphertext []byte) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[:gcm.NonceSize()]
	data := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, nil)
}

// SealString encrypts value and returns it URL-safe base64 encoded, suitable
// for a JWT claim.
func (s *Service) SealString(value string) (string, error) {
	sealed, err := s.Encrypt([]byte(value))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *Service) OpenString(value string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	plain, err := s.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *Service) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		decoded, err := hex.DecodeString(raw)
		if err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
