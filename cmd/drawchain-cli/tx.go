package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ap-arnab/DrawChain/internal/codec"
	"github.com/ap-arnab/DrawChain/internal/round"
)

func secretFromFlags(secret, secretHex string) ([]byte, error) {
	switch {
	case secret != "" && secretHex != "":
		return nil, fmt.Errorf("use either --secret or --secret-hex, not both")
	case secret != "":
		return []byte(secret), nil
	case secretHex != "":
		b, err := hex.DecodeString(strings.TrimPrefix(secretHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid --secret-hex: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("missing --secret or --secret-hex")
	}
}

// signedEnvelope builds and signs an authority tx envelope, picking the next
// nonce from chain state.
func signedEnvelope(typ string, value any, keyPath string) (codec.TxEnvelope, error) {
	kf, priv, err := loadKeyFile(keyPath)
	if err != nil {
		return codec.TxEnvelope{}, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return codec.TxEnvelope{}, fmt.Errorf("encode tx value: %w", err)
	}
	nonce, err := nextNonce(kf.Name)
	if err != nil {
		return codec.TxEnvelope{}, err
	}
	env := codec.TxEnvelope{
		Type:   typ,
		Value:  raw,
		Nonce:  nonce,
		Signer: kf.Name,
	}
	codec.SignEnvelope(&env, priv)
	return env, nil
}

func commitCmd() *cobra.Command {
	var (
		keyPath   string
		secret    string
		secretHex string
		digestHex string
	)
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit to a secret for the current round (authority only)",
		Long: "Commit records sha256(secret) on chain before the secret is disclosed.\n" +
			"Pass the secret to digest it locally, or pass --digest to commit a\n" +
			"precomputed digest without the secret ever touching this machine.",
		RunE: func(_ *cobra.Command, _ []string) error {
			var digest []byte
			if digestHex != "" {
				b, err := hex.DecodeString(strings.TrimPrefix(digestHex, "0x"))
				if err != nil {
					return fmt.Errorf("invalid --digest: %w", err)
				}
				digest = b
			} else {
				sec, err := secretFromFlags(secret, secretHex)
				if err != nil {
					return err
				}
				digest = round.DigestSecret(sec)
			}
			env, err := signedEnvelope("draw/commit", codec.DrawCommitTx{Digest: digest}, keyPath)
			if err != nil {
				return err
			}
			if err := broadcast(env); err != nil {
				return err
			}
			pterm.Info.Printfln("committed digest 0x%x", digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "authority.key.json", "authority key file")
	cmd.Flags().StringVar(&secret, "secret", "", "secret to digest and commit")
	cmd.Flags().StringVar(&secretHex, "secret-hex", "", "secret bytes in hex")
	cmd.Flags().StringVar(&digestHex, "digest", "", "precomputed sha256 digest in hex")
	return cmd
}

func revealCmd() *cobra.Command {
	var (
		keyPath   string
		secret    string
		secretHex string
	)
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Disclose the committed secret and derive the permutation (authority only)",
		RunE: func(_ *cobra.Command, _ []string) error {
			sec, err := secretFromFlags(secret, secretHex)
			if err != nil {
				return err
			}
			env, err := signedEnvelope("draw/reveal", codec.DrawRevealTx{Secret: sec}, keyPath)
			if err != nil {
				return err
			}
			return broadcast(env)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "authority.key.json", "authority key file")
	cmd.Flags().StringVar(&secret, "secret", "", "secret matching the committed digest")
	cmd.Flags().StringVar(&secretHex, "secret-hex", "", "secret bytes in hex")
	return cmd
}

func drawCmd() *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the next card (open to anyone)",
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := json.Marshal(codec.DrawCardTx{Caller: caller})
			if err != nil {
				return err
			}
			return broadcast(codec.TxEnvelope{Type: "draw/card", Value: raw})
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "caller name recorded in the CardDrawn event")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}

func resetCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear an idle or exhausted round (authority only)",
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := signedEnvelope("draw/reset", codec.DrawResetTx{}, keyPath)
			if err != nil {
				return err
			}
			return broadcast(env)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "authority.key.json", "authority key file")
	return cmd
}
