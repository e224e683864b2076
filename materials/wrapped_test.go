package materials

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentKeyAlgorithm(t *testing.T) {
	tests := []struct {
		name         string
		token        string
		expectedAlg  string
		expectedBits int
		expectError  bool
	}{
		{name: "empty defaults", token: "", expectedAlg: "AES", expectedBits: 256},
		{name: "bare AES uses default length", token: "AES", expectedAlg: "AES", expectedBits: 256},
		{name: "AES/128", token: "AES/128", expectedAlg: "AES", expectedBits: 128},
		{name: "AES/192", token: "AES/192", expectedAlg: "AES", expectedBits: 192},
		{name: "AES/256", token: "AES/256", expectedAlg: "AES", expectedBits: 256},
		{name: "unknown algorithm", token: "DES", expectError: true},
		{name: "invalid length", token: "AES/100", expectError: true},
		{name: "non-numeric length", token: "AES/big", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, bits, err := parseContentKeyAlgorithm(tt.token)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAlg, alg)
			assert.Equal(t, tt.expectedBits, bits)
		})
	}
}

func TestDeriveContentKeyNormalizesDescription(t *testing.T) {
	key, resolved, err := deriveContentKey(rand.Reader, MaterialDescription{ContentKeyAlgorithm: "AES/128"})
	require.NoError(t, err)

	assert.Equal(t, "AES", key.Algorithm)
	assert.Len(t, key.Material, 16)
	// The length suffix is dropped: it is implied by the wrapped key bytes.
	assert.Equal(t, "AES", resolved[ContentKeyAlgorithm])
}

func TestDeriveContentKeyUnsupportedAlgorithm(t *testing.T) {
	_, _, err := deriveContentKey(rand.Reader, MaterialDescription{ContentKeyAlgorithm: "ChaCha20"})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	testFixtures(t)

	for _, alg := range []string{WrapRSAOAEPSHA256, WrapRSAOAEPSHA1, WrapRSAPKCS1} {
		t.Run(alg, func(t *testing.T) {
			key, description, err := deriveContentKey(rand.Reader, MaterialDescription{
				KeyWrappingAlgorithm: alg,
			})
			require.NoError(t, err)

			wrapped, description, err := wrapContentKey(rand.Reader, testWrappingKeys.PublicKey, key, description)
			require.NoError(t, err)
			assert.Equal(t, alg, description[KeyWrappingAlgorithm])

			recovered, err := unwrapContentKey(testWrappingKeys.PrivateKey, wrapped, description)
			require.NoError(t, err)
			assert.True(t, key.Equal(recovered), "unwrapped key must equal the wrapped one")
		})
	}
}

func TestWrapDefaultsTransform(t *testing.T) {
	testFixtures(t)

	key, description, err := deriveContentKey(rand.Reader, MaterialDescription{})
	require.NoError(t, err)

	_, description, err = wrapContentKey(rand.Reader, testWrappingKeys.PublicKey, key, description)
	require.NoError(t, err)
	assert.Equal(t, WrapRSAOAEPSHA256, description[KeyWrappingAlgorithm])
}

func TestWrapUnsupportedTransform(t *testing.T) {
	testFixtures(t)

	key := ContentKey{Algorithm: "AES", Material: make([]byte, 32)}
	_, _, err := wrapContentKey(rand.Reader, testWrappingKeys.PublicKey, key, MaterialDescription{
		KeyWrappingAlgorithm: "RSA-KEM",
	})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestUnwrapRequiresWrappingAlgorithm(t *testing.T) {
	testFixtures(t)

	_, err := unwrapContentKey(testWrappingKeys.PrivateKey, []byte("wrapped"), MaterialDescription{})
	require.ErrorIs(t, err, ErrMalformedMaterials)
}

func TestUnwrapUnsupportedTransform(t *testing.T) {
	testFixtures(t)

	_, err := unwrapContentKey(testWrappingKeys.PrivateKey, []byte("wrapped"), MaterialDescription{
		KeyWrappingAlgorithm: "RSA-KEM",
	})
	require.ErrorIs(t, err, ErrMalformedMaterials)
}

func TestUnwrapCorruptedCiphertextIsOpaque(t *testing.T) {
	testFixtures(t)

	key, description, err := deriveContentKey(rand.Reader, MaterialDescription{})
	require.NoError(t, err)
	wrapped, description, err := wrapContentKey(rand.Reader, testWrappingKeys.PublicKey, key, description)
	require.NoError(t, err)

	wrapped[0] ^= 0xff

	_, err = unwrapContentKey(testWrappingKeys.PrivateKey, wrapped, description)
	// The failure kind carries no stage detail.
	require.ErrorIs(t, err, ErrCryptographicMaterials)
	assert.EqualError(t, err, ErrCryptographicMaterials.Error())
}
