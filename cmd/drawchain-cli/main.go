// Command drawchain-cli talks to a DrawChain node through the CometBFT RPC
// endpoint: authority txs (commit, reveal, reset), open draws, round queries
// and offline verification of a revealed round.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ap-arnab/DrawChain/internal/codec"
)

var nodeAddr string

func main() {
	root := &cobra.Command{
		Use:           "drawchain-cli",
		Short:         "DrawChain provably-fair card draw client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&nodeAddr, "node", "tcp://127.0.0.1:26657", "CometBFT RPC address")

	root.AddCommand(
		keygenCmd(),
		commitCmd(),
		revealCmd(),
		drawCmd(),
		resetCmd(),
		statusCmd(),
		permutationCmd(),
		verifyCmd(),
	)

	if err := root.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func rpcClient() (*rpchttp.HTTP, error) {
	c, err := rpchttp.New(nodeAddr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", nodeAddr, err)
	}
	return c, nil
}

func cliContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// abciQuery runs an ABCI query and returns the raw response value.
func abciQuery(path string) ([]byte, error) {
	c, err := rpcClient()
	if err != nil {
		return nil, err
	}
	ctx, cancel := cliContext()
	defer cancel()
	res, err := c.ABCIQuery(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	if res.Response.Code != 0 {
		return nil, fmt.Errorf("query %s: %s", path, res.Response.Log)
	}
	return res.Response.Value, nil
}

func queryJSON(path string, out any) error {
	b, err := abciQuery(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// broadcast submits a tx envelope and fails on a nonzero CheckTx code.
func broadcast(env codec.TxEnvelope) error {
	txBytes, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode tx: %w", err)
	}
	c, err := rpcClient()
	if err != nil {
		return err
	}
	ctx, cancel := cliContext()
	defer cancel()
	res, err := c.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	if res.Code != 0 {
		return fmt.Errorf("tx rejected: %s", res.Log)
	}
	pterm.Success.Printfln("%s broadcast (hash %X)", env.Type, res.Hash)
	return nil
}

// nextNonce picks the next replay nonce for a signer from chain state.
func nextNonce(signer string) (string, error) {
	var v struct {
		Nonce uint64 `json:"nonce"`
	}
	if err := queryJSON("/nonce/"+signer, &v); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", v.Nonce+1), nil
}
