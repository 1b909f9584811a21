package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/goccy/go-json"
)

// envelopeKey holds the sealed answers of an encrypted record.
const envelopeKey = "__encrypted__"

// ErrKeySize is returned for keys that are not 32 bytes long.
var ErrKeySize = errors.New("encryption key must be 32 bytes (AES-256)")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new records.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are old keys tried when decryption fails.
	// This enables key rotation without rewriting the journal.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.JournalStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals the answers of
// every record with AES-GCM. The rest of the record stays readable.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, ErrKeySize
	}
	return func(next ports.JournalStore) ports.JournalStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Append(ctx context.Context, sub *domain.Submission) error {
	plainText, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt answers: %w", err)
	}

	envelope := clone(sub)
	envelope.Answers = map[string][]string{
		envelopeKey: {base64.StdEncoding.EncodeToString(ciphertext)},
	}
	return m.next.Append(ctx, envelope)
}

func (m *encryptionMiddleware) open(sub *domain.Submission) (*domain.Submission, error) {
	sealed, ok := sub.Answers[envelopeKey]
	if !ok || len(sealed) != 1 {
		// Fail closed on records written without encryption.
		return nil, fmt.Errorf("submission %s is missing the encrypted answers", sub.ID)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(sealed[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt submission %s: %w", sub.ID, err)
	}

	out := clone(sub)
	out.Answers = nil
	if err := json.Unmarshal(plainText, &out.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted answers: %w", err)
	}
	return out, nil
}

func (m *encryptionMiddleware) Get(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := m.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.open(sub)
}

func (m *encryptionMiddleware) List(ctx context.Context, formURL string) ([]*domain.Submission, error) {
	subs, err := m.next.List(ctx, formURL)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Submission, len(subs))
	for i, sub := range subs {
		if out[i], err = m.open(sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
