package cipher

import (
	"context"
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"recordcrypt/record-encryption/materials"
	"recordcrypt/record-encryption/metrics"
)

// EncryptInput carries one record's plaintext and its per-record context.
type EncryptInput struct {
	// Plaintext is the serialized record to encrypt.
	Plaintext []byte
	// Context is the per-record encryption context handed to the provider.
	Context materials.EncryptionContext
}

// EncryptedRecord is the persistable result of encrypting one record.
type EncryptedRecord struct {
	// Ciphertext is nonce || AES-GCM sealed record.
	Ciphertext []byte
	// MaterialDescription must be stored verbatim; it is required to decrypt.
	MaterialDescription materials.MaterialDescription
	// Signature authenticates the ciphertext and the description under the
	// provider's signing credential.
	Signature []byte
}

// Cipher encrypts and authenticates records with materials from a provider.
type Cipher struct {
	// Provider supplies the per-record cryptographic materials.
	Provider materials.MaterialsProvider
	// Metrics receives request, error and latency measurements.
	Metrics metrics.Handler
}

// NewCipher creates a Cipher with the specified materials provider.
func NewCipher(provider materials.MaterialsProvider) *Cipher {
	return &Cipher{
		Provider: provider,
		Metrics:  metrics.NopHandler,
	}
}

// Encrypt seals the record under a fresh content key and signs the result.
// The returned record's description is bound into the GCM authenticated data,
// so tampering with either the stored description or the ciphertext fails
// decryption.
func (c *Cipher) Encrypt(ctx context.Context, input *EncryptInput) (*EncryptedRecord, error) {
	start := time.Now()
	c.Metrics.Counter(metrics.EncryptRequests).Inc(1)

	record, err := c.encrypt(ctx, input)
	c.Metrics.Timer(metrics.EncryptLatency).Record(time.Since(start))
	if err != nil {
		c.Metrics.Counter(metrics.EncryptErrors).Inc(1)
		return nil, err
	}

	return record, nil
}

func (c *Cipher) encrypt(ctx context.Context, input *EncryptInput) (*EncryptedRecord, error) {
	mats, err := c.Provider.GetEncryptionMaterials(ctx, input.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption materials: %w", err)
	}

	block, err := aes.NewCipher(mats.ContentKey.Material)
	if err != nil {
		return nil, err
	}
	gcm, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	authData := DescriptionToBytes(mats.MaterialDescription)
	ciphertext := gcm.Seal(nonce, nonce, input.Plaintext, authData)

	signature, err := sign(mats.SigningKey, ciphertext, authData)
	if err != nil {
		return nil, err
	}

	return &EncryptedRecord{
		Ciphertext:          ciphertext,
		MaterialDescription: mats.MaterialDescription,
		Signature:           signature,
	}, nil
}

// Decrypt verifies the record's signature, recovers the content key from the
// stored description, and opens the ciphertext.
func (c *Cipher) Decrypt(ctx context.Context, record *EncryptedRecord) ([]byte, error) {
	start := time.Now()
	c.Metrics.Counter(metrics.DecryptRequests).Inc(1)

	plaintext, err := c.decrypt(ctx, record)
	c.Metrics.Timer(metrics.DecryptLatency).Record(time.Since(start))
	if err != nil {
		c.Metrics.Counter(metrics.DecryptErrors).Inc(1)
		return nil, err
	}

	return plaintext, nil
}

func (c *Cipher) decrypt(ctx context.Context, record *EncryptedRecord) ([]byte, error) {
	mats, err := c.Provider.GetDecryptionMaterials(ctx, materials.EncryptionContext{
		MaterialDescription: record.MaterialDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get decryption materials: %w", err)
	}

	authData := DescriptionToBytes(mats.MaterialDescription)
	if err := verify(mats.VerificationKey, record.Ciphertext, authData, record.Signature); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(mats.ContentKey.Material)
	if err != nil {
		return nil, err
	}
	gcm, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(record.Ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := record.Ciphertext[:nonceSize], record.Ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, sealed, authData)
}
