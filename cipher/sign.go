package cipher

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
)

// ErrSignatureMismatch reports a record whose signature does not verify under
// the provider's verification key.
var ErrSignatureMismatch = errors.New("record signature mismatch")

// sign authenticates ciphertext and description bytes with the signing key a
// materials call handed out: HMAC-SHA256 for a MAC secret, RSA PKCS#1 v1.5
// over SHA-256 for a signature key pair.
func sign(signingKey crypto.PrivateKey, ciphertext, authData []byte) ([]byte, error) {
	switch key := signingKey.(type) {
	case []byte:
		mac := hmac.New(sha256.New, key)
		mac.Write(ciphertext)
		mac.Write(authData)
		return mac.Sum(nil), nil
	case *rsa.PrivateKey:
		digest := signingDigest(ciphertext, authData)
		return rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest)
	case crypto.Signer:
		digest := signingDigest(ciphertext, authData)
		return key.Sign(rand.Reader, digest, crypto.SHA256)
	default:
		return nil, fmt.Errorf("unsupported signing key type %T", signingKey)
	}
}

func verify(verificationKey crypto.PublicKey, ciphertext, authData, signature []byte) error {
	switch key := verificationKey.(type) {
	case []byte:
		mac := hmac.New(sha256.New, key)
		mac.Write(ciphertext)
		mac.Write(authData)
		if !hmac.Equal(signature, mac.Sum(nil)) {
			return ErrSignatureMismatch
		}
		return nil
	case *rsa.PublicKey:
		digest := signingDigest(ciphertext, authData)
		if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest, signature); err != nil {
			return ErrSignatureMismatch
		}
		return nil
	default:
		return fmt.Errorf("unsupported verification key type %T", verificationKey)
	}
}

func signingDigest(ciphertext, authData []byte) []byte {
	h := sha256.New()
	h.Write(ciphertext)
	h.Write(authData)
	return h.Sum(nil)
}
