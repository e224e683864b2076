package cipher

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordcrypt/record-encryption/materials"
)

var (
	keysOnce    sync.Once
	keysErr     error
	wrappingKey *rsa.PrivateKey
	signingKey  *rsa.PrivateKey
	macSecret   []byte
)

func newTestCipher(t *testing.T, useMAC bool) *Cipher {
	t.Helper()

	keysOnce.Do(func() {
		if wrappingKey, keysErr = rsa.GenerateKey(rand.Reader, 2048); keysErr != nil {
			return
		}
		if signingKey, keysErr = rsa.GenerateKey(rand.Reader, 2048); keysErr != nil {
			return
		}
		macSecret = make([]byte, 32)
		_, keysErr = rand.Read(macSecret)
	})
	require.NoError(t, keysErr)

	var credential materials.SigningCredential
	if useMAC {
		credential = materials.MACCredential{Secret: macSecret}
	} else {
		credential = materials.SignatureCredential{
			PrivateKey: signingKey,
			PublicKey:  &signingKey.PublicKey,
		}
	}

	provider, err := materials.NewStaticAsymmetricProvider(materials.WrappingKeyPair{
		PublicKey:  &wrappingKey.PublicKey,
		PrivateKey: wrappingKey,
	}, credential, materials.StaticAsymmetricOptions{})
	require.NoError(t, err)

	return NewCipher(provider)
}

func TestCipherRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		useMAC bool
	}{
		{name: "MAC credential", useMAC: true},
		{name: "signature credential", useMAC: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recordCipher := newTestCipher(t, tt.useMAC)
			ctx := context.Background()
			plaintext := []byte("the quick brown fox")

			record, err := recordCipher.Encrypt(ctx, &EncryptInput{Plaintext: plaintext})
			require.NoError(t, err)
			require.NotEmpty(t, record.Signature)
			assert.NotContains(t, string(record.Ciphertext), string(plaintext))

			recovered, err := recordCipher.Decrypt(ctx, record)
			require.NoError(t, err)
			assert.Equal(t, plaintext, recovered)
		})
	}
}

func TestCipherRejectsTamperedSignature(t *testing.T) {
	for _, useMAC := range []bool{true, false} {
		recordCipher := newTestCipher(t, useMAC)
		ctx := context.Background()

		record, err := recordCipher.Encrypt(ctx, &EncryptInput{Plaintext: []byte("payload")})
		require.NoError(t, err)

		record.Signature[0] ^= 0xff

		_, err = recordCipher.Decrypt(ctx, record)
		require.ErrorIs(t, err, ErrSignatureMismatch)
	}
}

func TestCipherRejectsTamperedCiphertext(t *testing.T) {
	recordCipher := newTestCipher(t, true)
	ctx := context.Background()

	record, err := recordCipher.Encrypt(ctx, &EncryptInput{Plaintext: []byte("payload")})
	require.NoError(t, err)

	record.Ciphertext[len(record.Ciphertext)-1] ^= 0xff

	_, err = recordCipher.Decrypt(ctx, record)
	require.Error(t, err)
}

func TestCipherRejectsTamperedDescription(t *testing.T) {
	recordCipher := newTestCipher(t, true)
	ctx := context.Background()

	record, err := recordCipher.Encrypt(ctx, &EncryptInput{Plaintext: []byte("payload")})
	require.NoError(t, err)

	// An attacker adding description entries invalidates the signature even
	// though the entry is unknown to the provider.
	record.MaterialDescription["tenant"] = "mallory"

	_, err = recordCipher.Decrypt(ctx, record)
	require.Error(t, err)
}

func TestCipherContextEntriesSurviveRoundTrip(t *testing.T) {
	recordCipher := newTestCipher(t, true)
	ctx := context.Background()

	record, err := recordCipher.Encrypt(ctx, &EncryptInput{
		Plaintext: []byte("payload"),
		Context: materials.EncryptionContext{
			MaterialDescription: materials.MaterialDescription{"tenant": "acme"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", record.MaterialDescription["tenant"])

	_, err = recordCipher.Decrypt(ctx, record)
	require.NoError(t, err)
}

func TestDescriptionToBytesDeterministic(t *testing.T) {
	description := materials.MaterialDescription{"b": "2", "a": "1", "c": "3"}

	first := DescriptionToBytes(description)
	second := DescriptionToBytes(description.Clone())

	assert.Equal(t, first, second)
	assert.JSONEq(t, `{"a":"1","b":"2","c":"3"}`, string(first))
}
