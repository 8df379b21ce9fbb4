package command

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/config"
	"github.com/yndnr/chainmap-go/internal/infra/buildinfo"
	"github.com/yndnr/chainmap-go/internal/storage/snapfile"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/pkg/seal"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:     "chainmap-cli",
		Usage:    "Snapshot-backed hash table management tool",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			SaveCommand(),
			GetCommand(),
			SnapshotCommand(),
			StatsCommand(),
			KeygenCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg

			l, err := logger.New(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})
			if err != nil {
				return err
			}
			logger.SetDefault(l)
			return nil
		},
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the config file",
			EnvVars: []string{"CHAINMAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "Snapshot directory",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
	}
}

// loadConfig builds the effective configuration with flag overrides on
// top of file and environment sources.
func loadConfig(c *cli.Context) (*config.Config, error) {
	overrides := map[string]any{}
	if v := c.String("data-dir"); v != "" {
		overrides["storage.data_dir"] = v
	}
	if v := c.String("log-level"); v != "" {
		overrides["log.level"] = v
	}
	if v := c.String("log-format"); v != "" {
		overrides["log.format"] = v
	}
	return config.Load(c.String("config"), overrides)
}

// getConfig retrieves the loaded configuration from app metadata.
func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// buildSealer constructs a sealer from the security config, or nil
// when encryption is off.
func buildSealer(cfg *config.Config) (seal.Sealer, error) {
	s := cfg.Security

	var key []byte
	switch {
	case s.EncryptionKey != "":
		k, err := hex.DecodeString(s.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("decode encryption key: %w", err)
		}
		key = k
	case s.Passphrase != "":
		var salt []byte
		if s.Salt != "" {
			b, err := hex.DecodeString(s.Salt)
			if err != nil {
				return nil, fmt.Errorf("decode salt: %w", err)
			}
			salt = b
		}
		k, usedSalt, err := seal.DeriveKey([]byte(s.Passphrase), salt)
		if err != nil {
			return nil, err
		}
		if s.Salt == "" {
			// Without the salt the key cannot be re-derived; make sure
			// the operator records it.
			fmt.Fprintf(os.Stderr, "generated salt (persist as security.salt): %s\n",
				hex.EncodeToString(usedSalt))
		}
		key = k
	default:
		return nil, nil
	}

	if s.Algorithm != "" {
		return seal.ForAlgorithm(seal.Algorithm(s.Algorithm), key)
	}
	return seal.New(key)
}

// newManager builds a snapshot manager from the configuration.
func newManager(cfg *config.Config) (*snapfile.Manager[string, string], error) {
	sealer, err := buildSealer(cfg)
	if err != nil {
		return nil, err
	}
	return snapfile.NewManager[string, string](snapfile.Config{
		Dir:            cfg.Storage.DataDir,
		RetentionCount: cfg.Storage.RetentionCount,
		RetentionDays:  cfg.Storage.RetentionDays,
		Sealer:         sealer,
	})
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
