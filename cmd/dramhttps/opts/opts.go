package opts

import (
	"context"
	"io"

	"github.com/walteh/dramhttps/pkg/config"
	"github.com/walteh/dramhttps/pkg/log"
	"github.com/walteh/dramhttps/pkg/operation"
	"github.com/walteh/dramhttps/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the --config value; empty means the optional default file
	ConfigFile string
	Debug      bool
	Overrides  config.Overrides
	Locator    config.Locator

	Out        io.Writer
	Console    *log.Logger
	UserLogger *log.UserLogger

	// NewOperator replaces the config-driven operator, for tests
	NewOperator func(ctx context.Context) (operation.Operator, error)

	// ExitCode is set by the command that ran
	ExitCode int
}

// LoadConfig reads the config file named by --config, or the default file if present
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		return config.LoadOptional(ctx, config.DefaultConfigName)
	}
	return config.LoadConfig(ctx, o.ConfigFile)
}

// RuleSet returns the shipped rules plus any from the config file
func (o *RootOpts) RuleSet(ctx context.Context) (*rules.Set, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg.RuleSet()
}

// Operator builds the operator for the resolved target
func (o *RootOpts) Operator(ctx context.Context) (operation.Operator, error) {
	if o.NewOperator != nil {
		return o.NewOperator(ctx)
	}

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	set, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}

	resolved, err := config.Resolve(ctx, cfg, o.Overrides, o.Locator)
	if err != nil {
		return nil, errors.Errorf("resolving target: %w", err)
	}

	op, err := operation.New(operation.Options{
		Target:     resolved.Target,
		BackupRoot: resolved.BackupRoot,
		Rules:      set,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}
	return op, nil
}
