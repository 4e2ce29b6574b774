// Package config assembles the engine configuration from compile-time
// defaults embedded in default-config.yml, an optional per-deployment
// override file, and COVENANT_* environment variables, in that precedence
// order (later sources win).
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/covenantnet/covenant-go/model/covenant"
)

// EnvPrefix scopes the environment variables read as overrides. The config
// key voting.max-delegation-hops, for example, is overridden by
// COVENANT_VOTING_MAX_DELEGATION_HOPS.
const EnvPrefix = "COVENANT"

//go:embed default-config.yml
var defaultConfig []byte

var validate = validator.New()

// CovenantConfig is the complete configuration of the covenant engine.
type CovenantConfig struct {
	// PlatformAddress receives platform fees from escrow settlements and
	// marketplace sales. The zero address is rejected at validation time.
	PlatformAddress covenant.Address     `validate:"required" mapstructure:"platform-address"`
	Voting          *VotingConfig        `validate:"required" mapstructure:"voting"`
	Marketplace     *MarketplaceConfig   `validate:"required" mapstructure:"marketplace"`
	Notifications   *NotificationsConfig `validate:"required" mapstructure:"notifications"`
	Metrics         *MetricsConfig       `validate:"required" mapstructure:"metrics"`
}

// VotingConfig parameterizes the voting engine. Chairperson and Window are
// only read when no voting session exists yet; on later startups the
// persisted session wins.
type VotingConfig struct {
	Chairperson       covenant.Address `validate:"required" mapstructure:"chairperson-address"`
	Window            time.Duration    `validate:"gt=0" mapstructure:"window"`
	MaxDelegationHops uint             `validate:"min=1,max=500" mapstructure:"max-delegation-hops"`
}

// MarketplaceConfig parameterizes the marketplace engine.
type MarketplaceConfig struct {
	// PlatformFeeBps seeds the stored platform fee setting on first startup;
	// UpdatePlatformFee governs it from then on. The tag mirrors the cap
	// covenant.MaxPlatformFeeBps.
	PlatformFeeBps uint64 `validate:"max=1000" mapstructure:"platform-fee-bps"`
}

// NotificationsConfig parameterizes event delivery to consumers.
type NotificationsConfig struct {
	EventBufferCapacity int `validate:"min=1" mapstructure:"event-buffer-capacity"`
}

// MetricsConfig parameterizes the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    uint `validate:"min=1,max=65535" mapstructure:"port"`
}

// Validate checks the configuration against the per-field constraints. An
// error means the configuration cannot safely parameterize the engine.
func (c *CovenantConfig) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("failed to validate covenant configuration: %w", validationErrors)
		}
		return fmt.Errorf("unexpected error validating covenant configuration: %w", err)
	}
	return nil
}

// DefaultConfig returns the configuration resolved from the embedded
// defaults and the environment alone.
func DefaultConfig() (*CovenantConfig, error) {
	return NewConfig("")
}

// NewConfig returns the configuration resolved from the embedded defaults,
// the override file at path (skipped when path is empty) and the
// environment. The result is not yet validated; callers decide when to
// enforce Validate.
func NewConfig(path string) (*CovenantConfig, error) {
	conf := viper.New()
	conf.SetConfigType("yml")

	err := conf.ReadConfig(bytes.NewReader(defaultConfig))
	if err != nil {
		return nil, fmt.Errorf("could not read embedded default config: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
		err = conf.MergeConfig(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("could not merge config file %s: %w", path, err)
		}
	}

	conf.SetEnvPrefix(EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	conf.AutomaticEnv()

	var c CovenantConfig
	err = unmarshal(conf, &c)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal covenant config: %w", err)
	}
	return &c, nil
}

func unmarshal(conf *viper.Viper, c *CovenantConfig) error {
	return conf.Unmarshal(c, func(decoderConfig *mapstructure.DecoderConfig) {
		// every struct field must be covered by the merged configuration
		decoderConfig.ErrorUnset = true
		decoderConfig.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		)
	})
}
