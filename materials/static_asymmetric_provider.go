package materials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// StaticAsymmetricOptions contains the optional configuration for a
// StaticAsymmetricProvider.
type StaticAsymmetricOptions struct {
	// FixedDescription entries are merged into every produced description.
	// They are authoritative: per-call entries cannot override them.
	FixedDescription MaterialDescription

	// Random is the source content keys are drawn from. It must be safe for
	// concurrent use; crypto/rand.Reader is used when nil.
	Random io.Reader

	// Logger receives debug-level records of materials production. A nop
	// logger is used when nil.
	Logger *zap.Logger
}

// StaticAsymmetricProvider produces encryption and decryption materials from
// a long-lived RSA wrapping key pair and a static signing credential. Every
// field is fixed at construction, so one instance may serve any number of
// concurrent calls without locking.
type StaticAsymmetricProvider struct {
	wrappingKeys WrappingKeyPair
	credential   SigningCredential
	fixed        MaterialDescription
	random       io.Reader
	logger       *zap.Logger
}

// NewStaticAsymmetricProvider creates a provider around the given wrapping
// key pair and signing credential. The pair needs at least one half: the
// public half for encryption, the private half for decryption.
func NewStaticAsymmetricProvider(keys WrappingKeyPair, credential SigningCredential, options StaticAsymmetricOptions) (*StaticAsymmetricProvider, error) {
	if keys.PublicKey == nil && keys.PrivateKey == nil {
		return nil, fmt.Errorf("%w: wrapping key pair has no keys", ErrConfiguration)
	}
	if err := validateCredential(credential); err != nil {
		return nil, err
	}

	random := options.Random
	if random == nil {
		random = rand.Reader
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StaticAsymmetricProvider{
		wrappingKeys: keys,
		credential:   credential,
		fixed:        options.FixedDescription.Clone(),
		random:       random,
		logger:       logger,
	}, nil
}

// GetEncryptionMaterials generates a fresh content key, wraps it under the
// wrapping public key, and returns it with the signing key and the final
// merged description.
func (p *StaticAsymmetricProvider) GetEncryptionMaterials(ctx context.Context, ec EncryptionContext) (*EncryptionMaterials, error) {
	description := MergeDescriptions(p.fixed, ec.MaterialDescription)

	contentKey, description, err := deriveContentKey(p.random, description)
	if err != nil {
		return nil, err
	}

	wrapped, description, err := wrapContentKey(p.random, p.wrappingKeys.PublicKey, contentKey, description)
	if err != nil {
		return nil, err
	}
	description[WrappedContentKey] = base64.StdEncoding.EncodeToString(wrapped)

	p.logger.Debug("produced encryption materials",
		zap.String("content_key_alg", description[ContentKeyAlgorithm]),
		zap.String("key_wrapping_alg", description[KeyWrappingAlgorithm]),
	)

	return &EncryptionMaterials{
		ContentKey:          contentKey,
		SigningKey:          p.credential.signingKey(),
		MaterialDescription: description,
	}, nil
}

// GetDecryptionMaterials unwraps the content key carried by the supplied
// description and returns it with the verification key. The description must
// be exactly what a prior GetEncryptionMaterials call produced.
func (p *StaticAsymmetricProvider) GetDecryptionMaterials(ctx context.Context, ec EncryptionContext) (*DecryptionMaterials, error) {
	description := ec.MaterialDescription

	encoded, ok := description[WrappedContentKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedMaterials, WrappedContentKey)
	}
	wrapped, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", ErrMalformedMaterials, WrappedContentKey)
	}

	contentKey, err := unwrapContentKey(p.wrappingKeys.PrivateKey, wrapped, description)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("recovered decryption materials",
		zap.String("content_key_alg", contentKey.Algorithm),
	)

	return &DecryptionMaterials{
		ContentKey:          contentKey,
		VerificationKey:     p.credential.verificationKey(),
		MaterialDescription: description.Clone(),
	}, nil
}

// Refresh is a no-op: the provider's keys are static for its lifetime. It
// exists to satisfy the MaterialsProvider contract shared with rotating
// variants.
func (p *StaticAsymmetricProvider) Refresh() {}
