package materials

import (
	"context"
	"fmt"
)

// SymmetricStaticProvider hands out one fixed symmetric content key for every
// record instead of wrapping a fresh key per call. It trades per-record key
// independence for zero asymmetric work, which suits test fixtures and
// single-tenant data sets where the key is managed out of band.
type SymmetricStaticProvider struct {
	contentKey ContentKey
	credential SigningCredential
	fixed      MaterialDescription
}

// NewSymmetricStaticProvider creates a provider around a fixed AES content
// key and a signing credential.
func NewSymmetricStaticProvider(key ContentKey, credential SigningCredential, fixed MaterialDescription) (*SymmetricStaticProvider, error) {
	if key.Algorithm != defaultContentKeyAlgorithm {
		return nil, fmt.Errorf("%w: unsupported content key algorithm %q", ErrConfiguration, key.Algorithm)
	}
	switch len(key.Material) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: invalid key length %d for %s", ErrConfiguration, len(key.Material)*8, key.Algorithm)
	}
	if err := validateCredential(credential); err != nil {
		return nil, err
	}

	return &SymmetricStaticProvider{
		contentKey: key,
		credential: credential,
		fixed:      fixed.Clone(),
	}, nil
}

func (p *SymmetricStaticProvider) GetEncryptionMaterials(ctx context.Context, ec EncryptionContext) (*EncryptionMaterials, error) {
	description := MergeDescriptions(p.fixed, ec.MaterialDescription)
	description[ContentKeyAlgorithm] = p.contentKey.Algorithm

	return &EncryptionMaterials{
		ContentKey:          p.contentKey,
		SigningKey:          p.credential.signingKey(),
		MaterialDescription: description,
	}, nil
}

func (p *SymmetricStaticProvider) GetDecryptionMaterials(ctx context.Context, ec EncryptionContext) (*DecryptionMaterials, error) {
	if alg, ok := ec.MaterialDescription[ContentKeyAlgorithm]; ok && alg != p.contentKey.Algorithm {
		return nil, fmt.Errorf("%w: description names %s %q, provider holds %q",
			ErrMalformedMaterials, ContentKeyAlgorithm, alg, p.contentKey.Algorithm)
	}

	return &DecryptionMaterials{
		ContentKey:          p.contentKey,
		VerificationKey:     p.credential.verificationKey(),
		MaterialDescription: ec.MaterialDescription.Clone(),
	}, nil
}

// Refresh is a no-op; the key is static for the provider's lifetime.
func (p *SymmetricStaticProvider) Refresh() {}
