package materials

import (
	"crypto"
	"fmt"
)

// SigningCredential is the closed choice between a symmetric MAC secret and
// an asymmetric signature key pair. A provider is constructed with exactly one
// of the two cases and uses it for every call; callers distinguish the cases
// with a type switch.
type SigningCredential interface {
	// signingKey is the half handed out on the encrypt path.
	signingKey() crypto.PrivateKey
	// verificationKey is the half handed out on the decrypt path.
	verificationKey() crypto.PublicKey
}

// MACCredential authenticates records with a shared symmetric secret. The
// same secret serves as both signing and verification key.
type MACCredential struct {
	Secret []byte
}

func (c MACCredential) signingKey() crypto.PrivateKey     { return c.Secret }
func (c MACCredential) verificationKey() crypto.PublicKey { return c.Secret }

// SignatureCredential authenticates records with an asymmetric signature key
// pair: the private half signs, the public half verifies.
type SignatureCredential struct {
	PrivateKey crypto.Signer
	PublicKey  crypto.PublicKey
}

func (c SignatureCredential) signingKey() crypto.PrivateKey     { return c.PrivateKey }
func (c SignatureCredential) verificationKey() crypto.PublicKey { return c.PublicKey }

func validateCredential(credential SigningCredential) error {
	switch c := credential.(type) {
	case MACCredential:
		if len(c.Secret) == 0 {
			return fmt.Errorf("%w: empty MAC secret", ErrConfiguration)
		}
	case SignatureCredential:
		if c.PrivateKey == nil && c.PublicKey == nil {
			return fmt.Errorf("%w: signature credential has no keys", ErrConfiguration)
		}
	case nil:
		return fmt.Errorf("%w: no signing credential", ErrConfiguration)
	default:
		return fmt.Errorf("%w: unknown signing credential type %T", ErrConfiguration, credential)
	}
	return nil
}
