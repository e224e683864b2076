package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"recordcrypt/record-encryption/cipher"
	"recordcrypt/record-encryption/config"
	"recordcrypt/record-encryption/materials"
	"recordcrypt/record-encryption/metrics"
)

func main() {
	app := &cli.App{
		Name:  "recrypt",
		Usage: "record encryption materials tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    config.ConfigPathFlag,
				Usage:   "config file",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigPath,
			},
			&cli.StringFlag{
				Name:  config.LogLevelFlag,
				Usage: "log level",
				Value: "info",
			},
		},
		Commands: []*cli.Command{
			keygenCommand(),
			roundtripCommand(),
			benchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func newLogger(cCtx *cli.Context) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cCtx.String(config.LogLevelFlag))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	return cfg.Build()
}

// keygenCommand writes a fresh set of provider secrets: an RSA wrapping pair,
// an RSA signing pair, and a base64 MAC secret.
func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "generate wrapping keys, signing keys and a MAC secret",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "output directory", Value: "."},
			&cli.IntFlag{Name: "bits", Usage: "RSA key size", Value: 2048},
		},
		Action: func(cCtx *cli.Context) error {
			logger, err := newLogger(cCtx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			dir := cCtx.String("dir")
			bits := cCtx.Int("bits")

			for _, name := range []string{"wrap", "sign"} {
				key, err := rsa.GenerateKey(rand.Reader, bits)
				if err != nil {
					return err
				}
				if err := writeKeyPair(dir, name, key); err != nil {
					return err
				}
			}

			secret := make([]byte, 32)
			if _, err := rand.Read(secret); err != nil {
				return err
			}
			macPath := filepath.Join(dir, "mac_secret.b64")
			if err := os.WriteFile(macPath, []byte(base64.StdEncoding.EncodeToString(secret)), 0o600); err != nil {
				return err
			}

			logger.Info("wrote provider secrets",
				zap.String("dir", dir),
				zap.Int("rsa_bits", bits),
			)
			return nil
		},
	}
}

func writeKeyPair(dir, name string, key *rsa.PrivateKey) error {
	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return err
	}
	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})
	if err := os.WriteFile(filepath.Join(dir, name+"_private.pem"), privatePEM, 0o600); err != nil {
		return err
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	return os.WriteFile(filepath.Join(dir, name+"_public.pem"), publicPEM, 0o644)
}

// roundtripCommand encrypts and decrypts a sample record with the configured
// provider, as a configuration smoke test.
func roundtripCommand() *cli.Command {
	return &cli.Command{
		Name:  "roundtrip",
		Usage: "encrypt and decrypt a sample record with the configured provider",
		Action: func(cCtx *cli.Context) error {
			logger, err := newLogger(cCtx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.LoadConfig(cCtx.String(config.ConfigPathFlag))
			if err != nil {
				return err
			}

			provider, err := materials.NewProviderFromConfig(cfg.Provider, logger, metrics.NopHandler)
			if err != nil {
				return err
			}

			recordCipher := cipher.NewCipher(provider)
			plaintext := []byte("record-encryption roundtrip sample")

			record, err := recordCipher.Encrypt(cCtx.Context, &cipher.EncryptInput{Plaintext: plaintext})
			if err != nil {
				return err
			}

			recovered, err := recordCipher.Decrypt(cCtx.Context, record)
			if err != nil {
				return err
			}
			if string(recovered) != string(plaintext) {
				return fmt.Errorf("roundtrip mismatch")
			}

			logger.Info("roundtrip succeeded",
				zap.String("content_key_alg", record.MaterialDescription[materials.ContentKeyAlgorithm]),
				zap.String("key_wrapping_alg", record.MaterialDescription[materials.KeyWrappingAlgorithm]),
				zap.Int("ciphertext_len", len(record.Ciphertext)),
			)
			return nil
		},
	}
}

// benchCommand runs a continuous encrypt/decrypt load with the configured
// provider and exposes Prometheus metrics for it.
func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "run encrypt/decrypt load against the configured provider",
		Action: func(cCtx *cli.Context) error {
			app := fx.New(
				fx.Supply(cCtx),
				fx.Provide(newLogger),
				config.Module,
				metrics.Module,
				materials.Module,
				fx.Invoke(runBench),
			)

			app.Run()
			return nil
		},
	}
}

func runBench(
	lc fx.Lifecycle,
	provider materials.MaterialsProvider,
	metricsHandler metrics.Handler,
	metricsProvider metrics.MetricsProvider,
	logger *zap.Logger,
) {
	recordCipher := cipher.NewCipher(provider)
	recordCipher.Metrics = metricsHandler

	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go benchLoop(recordCipher, logger, done)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func benchLoop(recordCipher *cipher.Cipher, logger *zap.Logger, done <-chan struct{}) {
	ctx := context.Background()
	plaintext := []byte("record-encryption bench payload")
	var rounds uint64

	logger.Info("bench started")
	for {
		select {
		case <-done:
			logger.Info("bench stopped", zap.Uint64("rounds", rounds))
			return
		default:
		}

		record, err := recordCipher.Encrypt(ctx, &cipher.EncryptInput{Plaintext: plaintext})
		if err != nil {
			logger.Error("bench encrypt failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if _, err := recordCipher.Decrypt(ctx, record); err != nil {
			logger.Error("bench decrypt failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		rounds++
	}
}
