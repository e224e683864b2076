package materials

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test fixtures; RSA generation is slow enough to do once.
var (
	fixturesOnce sync.Once
	fixturesErr  error

	testWrappingKeys  WrappingKeyPair
	testSignaturePair SignatureCredential
	testMACSecret     []byte
)

func testFixtures(t *testing.T) {
	t.Helper()

	fixturesOnce.Do(func() {
		wrapKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			fixturesErr = err
			return
		}
		testWrappingKeys = WrappingKeyPair{
			PublicKey:  &wrapKey.PublicKey,
			PrivateKey: wrapKey,
		}

		sigKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			fixturesErr = err
			return
		}
		testSignaturePair = SignatureCredential{
			PrivateKey: sigKey,
			PublicKey:  &sigKey.PublicKey,
		}

		testMACSecret = make([]byte, 32)
		_, fixturesErr = rand.Read(testMACSecret)
	})

	require.NoError(t, fixturesErr, "failed to generate test fixtures")
}
