package materials

import (
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Supported key wrapping transforms. The token chosen at encrypt time is
// echoed verbatim into the description's key-wrapping-alg entry.
const (
	WrapRSAOAEPSHA256 = "RSA-OAEP-SHA256"
	WrapRSAOAEPSHA1   = "RSA-OAEP-SHA1"
	WrapRSAPKCS1      = "RSA-PKCS1"
)

const (
	defaultContentKeyAlgorithm  = "AES"
	defaultContentKeyBits       = 256
	defaultKeyWrappingAlgorithm = WrapRSAOAEPSHA256
)

// WrappingKeyPair is the long-lived asymmetric pair that wraps and unwraps
// content keys. Either half may be nil for an encrypt-only or decrypt-only
// provider.
type WrappingKeyPair struct {
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
}

// parseContentKeyAlgorithm splits a content-key-alg token into algorithm name
// and key length in bits. An empty token selects the defaults; a bare "AES"
// selects the default length for AES.
func parseContentKeyAlgorithm(token string) (alg string, bits int, err error) {
	if token == "" {
		return defaultContentKeyAlgorithm, defaultContentKeyBits, nil
	}

	alg = token
	bits = 0
	if idx := strings.IndexByte(token, '/'); idx >= 0 {
		alg = token[:idx]
		bits, err = strconv.Atoi(token[idx+1:])
		if err != nil {
			return "", 0, fmt.Errorf("content key length %q is not a number", token[idx+1:])
		}
	}

	// AES is the only supported content key family. Unknown tokens fail
	// rather than silently falling back.
	if alg != defaultContentKeyAlgorithm {
		return "", 0, fmt.Errorf("unsupported content key algorithm %q", alg)
	}

	switch bits {
	case 0:
		bits = defaultContentKeyBits
	case 128, 192, 256:
	default:
		return "", 0, fmt.Errorf("invalid key length %d for %s", bits, alg)
	}

	return alg, bits, nil
}

// deriveContentKey generates a new, independently random content key with the
// algorithm and length selected by the description (or the defaults when the
// description is silent). The returned description has content-key-alg
// normalized to the bare algorithm name so the decrypt side can reconstruct
// the same key type; the length itself is implied by the wrapped key bytes.
func deriveContentKey(random io.Reader, description MaterialDescription) (ContentKey, MaterialDescription, error) {
	alg, bits, err := parseContentKeyAlgorithm(description[ContentKeyAlgorithm])
	if err != nil {
		return ContentKey{}, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	material := make([]byte, bits/8)
	if _, err := io.ReadFull(random, material); err != nil {
		return ContentKey{}, nil, fmt.Errorf("%w: content key generation: %v", ErrCryptographicMaterials, err)
	}

	resolved := description.Clone()
	resolved[ContentKeyAlgorithm] = alg

	return ContentKey{Algorithm: alg, Material: material}, resolved, nil
}

// wrapContentKey encrypts the content key bytes under the wrapping public key
// with the transform named by key-wrapping-alg, defaulting when absent, and
// writes the resolved transform name back into the description.
func wrapContentKey(random io.Reader, publicKey *rsa.PublicKey, key ContentKey, description MaterialDescription) ([]byte, MaterialDescription, error) {
	if publicKey == nil {
		return nil, nil, fmt.Errorf("%w: provider has no wrapping public key", ErrConfiguration)
	}

	alg := description[KeyWrappingAlgorithm]
	if alg == "" {
		alg = defaultKeyWrappingAlgorithm
	}

	var wrapped []byte
	var err error
	switch alg {
	case WrapRSAOAEPSHA256:
		wrapped, err = rsa.EncryptOAEP(sha256.New(), random, publicKey, key.Material, nil)
	case WrapRSAOAEPSHA1:
		wrapped, err = rsa.EncryptOAEP(sha1.New(), random, publicKey, key.Material, nil)
	case WrapRSAPKCS1:
		wrapped, err = rsa.EncryptPKCS1v15(random, publicKey, key.Material)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported key wrapping algorithm %q", ErrConfiguration, alg)
	}
	if err != nil {
		// Collapse the underlying cause so a caller controlling the inputs
		// cannot tell which stage failed.
		return nil, nil, ErrCryptographicMaterials
	}

	resolved := description.Clone()
	resolved[KeyWrappingAlgorithm] = alg

	return wrapped, resolved, nil
}

// unwrapContentKey decrypts wrapped content key bytes with the wrapping
// private key. key-wrapping-alg is required here: the decrypt side never
// guesses a transform the encrypt side did not record.
func unwrapContentKey(privateKey *rsa.PrivateKey, wrapped []byte, description MaterialDescription) (ContentKey, error) {
	if privateKey == nil {
		return ContentKey{}, fmt.Errorf("%w: provider has no wrapping private key", ErrConfiguration)
	}

	alg, ok := description[KeyWrappingAlgorithm]
	if !ok || alg == "" {
		return ContentKey{}, fmt.Errorf("%w: missing %s", ErrMalformedMaterials, KeyWrappingAlgorithm)
	}

	contentAlg, _, err := parseContentKeyAlgorithm(description[ContentKeyAlgorithm])
	if err != nil {
		return ContentKey{}, fmt.Errorf("%w: %v", ErrMalformedMaterials, err)
	}

	var material []byte
	switch alg {
	case WrapRSAOAEPSHA256:
		material, err = rsa.DecryptOAEP(sha256.New(), nil, privateKey, wrapped, nil)
	case WrapRSAOAEPSHA1:
		material, err = rsa.DecryptOAEP(sha1.New(), nil, privateKey, wrapped, nil)
	case WrapRSAPKCS1:
		material, err = rsa.DecryptPKCS1v15(nil, privateKey, wrapped)
	default:
		return ContentKey{}, fmt.Errorf("%w: unsupported key wrapping algorithm %q", ErrMalformedMaterials, alg)
	}
	if err != nil {
		return ContentKey{}, ErrCryptographicMaterials
	}

	switch len(material) {
	case 16, 24, 32:
	default:
		// A wrong-length key means corrupted ciphertext or a key mismatch;
		// report it as the same opaque failure as a padding error.
		return ContentKey{}, ErrCryptographicMaterials
	}

	return ContentKey{Algorithm: contentAlg, Material: material}, nil
}
