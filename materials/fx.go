package materials

import (
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"recordcrypt/record-encryption/config"
	"recordcrypt/record-encryption/metrics"
)

var Module = fx.Provide(
	newMaterialsProvider,
)

func newMaterialsProvider(configProvider config.ConfigProvider, logger *zap.Logger, metricsHandler metrics.Handler) (MaterialsProvider, error) {
	return NewProviderFromConfig(configProvider.GetProviderConfig().Provider, logger, metricsHandler)
}

// NewProviderFromConfig assembles the provider graph a config file describes:
// a static asymmetric provider around the configured keys, optionally wrapped
// in a caching decorator.
func NewProviderFromConfig(cfg config.MaterialsConfig, logger *zap.Logger, metricsHandler metrics.Handler) (MaterialsProvider, error) {
	keys, err := loadWrappingKeys(cfg.WrappingKeys)
	if err != nil {
		return nil, err
	}

	credential, err := loadSigningCredential(cfg.Signing)
	if err != nil {
		return nil, err
	}

	provider, err := NewStaticAsymmetricProvider(keys, credential, StaticAsymmetricOptions{
		FixedDescription: MaterialDescription(cfg.Description),
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Caching == nil {
		return provider, nil
	}

	cachingConfig := CachingConfig{
		MaxCache: cfg.Caching.MaxCache,
		MaxUses:  cfg.Caching.MaxUsage,
	}
	if cfg.Caching.MaxAge != "" {
		maxAge, err := time.ParseDuration(cfg.Caching.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid caching max_age: %w", err)
		}
		cachingConfig.MaxAge = maxAge
	}

	return NewCachingMaterialsProvider(provider, cachingConfig, metricsHandler)
}

func loadWrappingKeys(cfg config.KeyPairConfig) (WrappingKeyPair, error) {
	var keys WrappingKeyPair
	var err error

	if cfg.PrivateKeyFile != "" {
		keys.PrivateKey, err = config.LoadRSAPrivateKey(cfg.PrivateKeyFile)
		if err != nil {
			return keys, err
		}
		keys.PublicKey = &keys.PrivateKey.PublicKey
	}
	if cfg.PublicKeyFile != "" {
		keys.PublicKey, err = config.LoadRSAPublicKey(cfg.PublicKeyFile)
		if err != nil {
			return keys, err
		}
	}

	return keys, nil
}

func loadSigningCredential(cfg config.SigningConfig) (SigningCredential, error) {
	if cfg.MACSecretFile != "" {
		secret, err := config.LoadMACSecret(cfg.MACSecretFile)
		if err != nil {
			return nil, err
		}
		return MACCredential{Secret: secret}, nil
	}

	if cfg.KeyPair == nil {
		return nil, fmt.Errorf("%w: no signing credential configured", ErrConfiguration)
	}

	var credential SignatureCredential
	if cfg.KeyPair.PrivateKeyFile != "" {
		privateKey, err := config.LoadRSAPrivateKey(cfg.KeyPair.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		credential.PrivateKey = privateKey
		credential.PublicKey = &privateKey.PublicKey
	}
	if cfg.KeyPair.PublicKeyFile != "" {
		publicKey, err := config.LoadRSAPublicKey(cfg.KeyPair.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		credential.PublicKey = publicKey
	}
	if credential.PrivateKey == nil && credential.PublicKey == nil {
		return nil, fmt.Errorf("%w: signing key_pair names no key files", ErrConfiguration)
	}

	return credential, nil
}
