package main

import (
	"crypto/ed25519"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// keyFile is the on-disk authority keypair.
type keyFile struct {
	Name    string `json:"name"`
	PubKey  string `json:"pub_key"`  // hex, 32 bytes
	PrivKey string `json:"priv_key"` // hex, 64 bytes
}

func keygenCmd() *cobra.Command {
	var (
		name string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ed25519 authority keypair",
		RunE: func(_ *cobra.Command, _ []string) error {
			pub, priv, err := ed25519.GenerateKey(crand.Reader)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			kf := keyFile{
				Name:    name,
				PubKey:  hex.EncodeToString(pub),
				PrivKey: hex.EncodeToString(priv),
			}
			b, err := json.MarshalIndent(kf, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			pterm.Success.Printfln("wrote %s", out)
			pterm.Info.Printfln("authority = %q", name)
			pterm.Info.Printfln("authority_pubkey = %q", kf.PubKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "authority", "signer name recorded in the key file")
	cmd.Flags().StringVar(&out, "out", "authority.key.json", "output path")
	return cmd
}

func loadKeyFile(path string) (keyFile, ed25519.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return keyFile{}, nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(b, &kf); err != nil {
		return keyFile{}, nil, fmt.Errorf("decode key file: %w", err)
	}
	priv, err := hex.DecodeString(kf.PrivKey)
	if err != nil {
		return keyFile{}, nil, fmt.Errorf("decode priv_key: %w", err)
	}
	if len(priv) != ed25519.PrivateKeySize {
		return keyFile{}, nil, fmt.Errorf("priv_key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	return kf, ed25519.PrivateKey(priv), nil
}
