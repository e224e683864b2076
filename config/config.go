package config

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	ConfigPathFlag    = "config"
	DefaultConfigPath = "config.yaml"
	LogLevelFlag      = "level"
)

type (
	ConfigProvider interface {
		GetProviderConfig() ProviderConfig
	}

	ProviderConfig struct {
		Metrics  MetricsConfig   `yaml:"metrics"`
		Provider MaterialsConfig `yaml:"provider"`
	}

	MetricsConfig struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}

	// MaterialsConfig describes how to assemble a materials provider: where
	// its long-lived keys live on disk, which signing credential it carries,
	// and the description entries it fixes for every call.
	MaterialsConfig struct {
		WrappingKeys KeyPairConfig     `yaml:"wrapping_keys"`
		Signing      SigningConfig     `yaml:"signing"`
		Description  map[string]string `yaml:"description,omitempty"`
		Caching      *CachingConfig    `yaml:"caching,omitempty"`
	}

	KeyPairConfig struct {
		PublicKeyFile  string `yaml:"public_key_file,omitempty"`
		PrivateKeyFile string `yaml:"private_key_file,omitempty"`
	}

	// SigningConfig selects exactly one signing credential: a base64 MAC
	// secret read from a file, or an RSA signature key pair.
	SigningConfig struct {
		MACSecretFile string         `yaml:"mac_secret_file,omitempty"`
		KeyPair       *KeyPairConfig `yaml:"key_pair,omitempty"`
	}

	CachingConfig struct {
		MaxCache int    `yaml:"max_cache,omitempty"`
		MaxAge   string `yaml:"max_age,omitempty"`
		MaxUsage int    `yaml:"max_usage,omitempty"`
	}

	cliConfigProvider struct {
		ctx            *cli.Context
		providerConfig ProviderConfig
	}
)

func newConfigProvider(ctx *cli.Context) (ConfigProvider, error) {
	providerConfig, err := LoadConfig(ctx.String(ConfigPathFlag))
	if err != nil {
		return nil, err
	}

	return &cliConfigProvider{
		ctx:            ctx,
		providerConfig: providerConfig,
	}, nil
}

func (c *cliConfigProvider) GetProviderConfig() ProviderConfig {
	return c.providerConfig
}

func LoadConfig(configFilePath string) (ProviderConfig, error) {
	var config ProviderConfig

	configFile, err := os.ReadFile(configFilePath)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(configFile, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err = config.Provider.validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c MaterialsConfig) validate() error {
	if c.WrappingKeys.PublicKeyFile == "" && c.WrappingKeys.PrivateKeyFile == "" {
		return fmt.Errorf("provider.wrapping_keys needs at least one of public_key_file, private_key_file")
	}

	if c.Signing.MACSecretFile == "" && c.Signing.KeyPair == nil {
		return fmt.Errorf("provider.signing needs one of mac_secret_file, key_pair")
	}
	if c.Signing.MACSecretFile != "" && c.Signing.KeyPair != nil {
		return fmt.Errorf("provider.signing must name exactly one of mac_secret_file, key_pair")
	}

	return nil
}
