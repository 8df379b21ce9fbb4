package command

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/pkg/seal"
)

// KeygenCommand returns the keygen command: generate a random
// snapshot encryption key, or derive one from a passphrase.
func KeygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate a hex-encoded snapshot encryption key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "Derive the key from a passphrase instead of random bytes",
			},
			&cli.StringFlag{
				Name:  "salt",
				Usage: "Hex-encoded salt for passphrase derivation (new salt if empty)",
			},
		},
		Action: keygenAction,
	}
}

func keygenAction(c *cli.Context) error {
	if pass := c.String("passphrase"); pass != "" {
		var salt []byte
		if s := c.String("salt"); s != "" {
			b, err := hex.DecodeString(s)
			if err != nil {
				return fmt.Errorf("decode salt: %w", err)
			}
			salt = b
		}
		key, usedSalt, err := seal.DeriveKey([]byte(pass), salt)
		if err != nil {
			return err
		}
		defer seal.Zero(key)
		fmt.Fprintf(c.App.Writer, "key:  %s\n", hex.EncodeToString(key))
		fmt.Fprintf(c.App.Writer, "salt: %s\n", hex.EncodeToString(usedSalt))
		return nil
	}

	key, err := seal.GenerateKey()
	if err != nil {
		return err
	}
	defer seal.Zero(key)
	fmt.Fprintln(c.App.Writer, hex.EncodeToString(key))
	return nil
}
