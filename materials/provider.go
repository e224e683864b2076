package materials

import "context"

// MaterialsProvider is the uniform capability contract shared by all provider
// variants. Static providers never touch I/O, but the contract carries a
// context.Context because other variants in the family (KMS-backed, cached)
// may block or record metrics.
//
// Implementations must be safe for unbounded concurrent use.
type MaterialsProvider interface {
	// GetEncryptionMaterials produces a fresh content key, the signing key,
	// and the final material description for one record.
	GetEncryptionMaterials(ctx context.Context, ec EncryptionContext) (*EncryptionMaterials, error)

	// GetDecryptionMaterials recovers the content key and verification key
	// from a description produced by a prior GetEncryptionMaterials call.
	GetDecryptionMaterials(ctx context.Context, ec EncryptionContext) (*DecryptionMaterials, error)

	// Refresh tells the provider to re-acquire any rotating state. Static
	// providers implement it as a no-op; it must be callable at any time
	// with no observable effect on subsequent calls.
	Refresh()
}
