package materials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetricStaticProvider_RoundTrip(t *testing.T) {
	testFixtures(t)

	contentKey := ContentKey{Algorithm: "AES", Material: make([]byte, 32)}
	provider, err := NewSymmetricStaticProvider(contentKey, MACCredential{Secret: testMACSecret}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	eMat, err := provider.GetEncryptionMaterials(ctx, EncryptionContext{})
	require.NoError(t, err)
	assert.True(t, contentKey.Equal(eMat.ContentKey))
	assert.Equal(t, "AES", eMat.MaterialDescription[ContentKeyAlgorithm])

	dMat, err := provider.GetDecryptionMaterials(ctx, decryptContext(eMat))
	require.NoError(t, err)
	assert.True(t, contentKey.Equal(dMat.ContentKey))
	assert.Equal(t, testMACSecret, dMat.VerificationKey)
}

func TestSymmetricStaticProvider_RejectsInvalidKeys(t *testing.T) {
	testFixtures(t)

	tests := []struct {
		name string
		key  ContentKey
	}{
		{name: "wrong algorithm", key: ContentKey{Algorithm: "DES", Material: make([]byte, 32)}},
		{name: "wrong length", key: ContentKey{Algorithm: "AES", Material: make([]byte, 15)}},
		{name: "empty key", key: ContentKey{Algorithm: "AES"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSymmetricStaticProvider(tt.key, MACCredential{Secret: testMACSecret}, nil)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestSymmetricStaticProvider_AlgorithmMismatch(t *testing.T) {
	testFixtures(t)

	contentKey := ContentKey{Algorithm: "AES", Material: make([]byte, 16)}
	provider, err := NewSymmetricStaticProvider(contentKey, MACCredential{Secret: testMACSecret}, nil)
	require.NoError(t, err)

	_, err = provider.GetDecryptionMaterials(context.Background(), EncryptionContext{
		MaterialDescription: MaterialDescription{ContentKeyAlgorithm: "DES"},
	})
	require.ErrorIs(t, err, ErrMalformedMaterials)
}
