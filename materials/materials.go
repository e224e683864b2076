package materials

import "crypto"

// ContentKey is a symmetric key used by the record encryption engine to
// encrypt the actual record data.
type ContentKey struct {
	// Algorithm names the cipher family the key is intended for, e.g. "AES".
	Algorithm string
	// Material is the raw key bytes.
	Material []byte
}

// Equal reports whether two content keys have the same algorithm and bytes.
// It is not constant-time; use it in tests, not on attacker-visible paths.
func (k ContentKey) Equal(other ContentKey) bool {
	if k.Algorithm != other.Algorithm || len(k.Material) != len(other.Material) {
		return false
	}
	for i := range k.Material {
		if k.Material[i] != other.Material[i] {
			return false
		}
	}
	return true
}

// EncryptionMaterials is the result of the encrypt-side materials call. The
// caller owns the value after return; the provider keeps no reference to it.
type EncryptionMaterials struct {
	// ContentKey is a freshly generated symmetric key, independent of every
	// other call's key.
	ContentKey ContentKey
	// SigningKey is the signing half of the provider's credential: the MAC
	// secret ([]byte) or the signature pair's private key (crypto.Signer).
	SigningKey crypto.PrivateKey
	// MaterialDescription is the authoritative record needed to reverse the
	// operation; the pipeline must persist it alongside the ciphertext.
	MaterialDescription MaterialDescription
}

// DecryptionMaterials is the result of the decrypt-side materials call.
type DecryptionMaterials struct {
	// ContentKey is the recovered symmetric key.
	ContentKey ContentKey
	// VerificationKey is the verification half of the provider's credential:
	// the same MAC secret, or the signature pair's public key.
	VerificationKey crypto.PublicKey
	// MaterialDescription is the description as supplied by the caller.
	MaterialDescription MaterialDescription
}
