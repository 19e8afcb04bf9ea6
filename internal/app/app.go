// Package app implements the DrawChain ABCI application: a single
// commit-reveal card-draw round replicated through CometBFT.
package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/ap-arnab/DrawChain/internal/codec"
	"github.com/ap-arnab/DrawChain/internal/state"
)

const (
	AppVersion uint64 = 1
)

// Config is the construction-time configuration, fixed for the life of the
// chain's home directory.
type Config struct {
	DeckSize     int
	Authority    string
	AuthorityKey []byte // 32-byte ed25519 pubkey
}

type DrawApp struct {
	*abci.BaseApplication

	home string

	mu       sync.Mutex
	st       *state.State
	lastHash []byte

	// Events collected from round observers during the tx being delivered.
	pending []abci.Event
}

func New(home string, cfg Config) (*DrawApp, error) {
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome, cfg.DeckSize, cfg.Authority, cfg.AuthorityKey)
	if err != nil {
		return nil, err
	}
	a := &DrawApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		st:              st,
		lastHash:        st.AppHash(),
	}
	// The app itself observes the round and turns notifications into ABCI
	// events, in order, exactly once per logical event.
	st.Round.Subscribe(a)
	return a, nil
}

func (a *DrawApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "DrawChain",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *DrawApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	// Structural validation only; state-dependent checks happen at delivery.
	if guardedTxType(env.Type) {
		if err := requireSignedEnvelope(env); err != nil {
			return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
		}
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *DrawApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

func (a *DrawApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(txBytes))
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *DrawApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

// roundView is the /round query response.
type roundView struct {
	Phase           string `json:"phase"`
	RoundSeq        uint64 `json:"roundSeq"`
	DeckSize        int    `json:"deckSize"`
	Cursor          int    `json:"cursor"`
	Remaining       int    `json:"remaining"`
	CommittedDigest string `json:"committedDigest,omitempty"`
	DisclosedSecret []byte `json:"disclosedSecret,omitempty"`
}

func (a *DrawApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.st.Round
	path := strings.TrimSpace(req.Path)
	if signer, ok := strings.CutPrefix(path, "/nonce/"); ok {
		b, _ := json.Marshal(map[string]any{"signer": signer, "nonce": a.st.NonceMax[signer]})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	}
	switch path {
	case "/round":
		v := roundView{
			Phase:           string(r.CurrentPhase()),
			RoundSeq:        a.st.RoundSeq,
			DeckSize:        r.DeckSize,
			Cursor:          r.Cursor,
			Remaining:       r.Remaining(),
			CommittedDigest: bytesToHex(r.CommittedDigest),
			DisclosedSecret: r.DisclosedSecret,
		}
		b, _ := json.Marshal(v)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case "/remaining":
		b, _ := json.Marshal(map[string]int{"remaining": r.Remaining()})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case "/permutation":
		// Empty until revealed; the exposed sequence is what external
		// verifiers check Derive(secret, deckSize) against.
		b, _ := json.Marshal(r.Permutation)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case "/config":
		b, _ := json.Marshal(map[string]any{
			"deckSize":     a.st.DeckSize,
			"authority":    a.st.Authority,
			"authorityKey": bytesToHex(a.st.AuthorityKey),
		})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}
