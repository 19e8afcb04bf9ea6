package app

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strconv"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/ap-arnab/DrawChain/internal/cards"
	"github.com/ap-arnab/DrawChain/internal/codec"
	"github.com/ap-arnab/DrawChain/internal/round"
	"github.com/ap-arnab/DrawChain/internal/shuffle"
)

func TestDrawLifecycle(t *testing.T) {
	a := newTestApp(t)
	secret := []byte("x")
	digest := round.DigestSecret(secret)

	// Commit.
	res := mustOk(t, a.deliverTx(txBytesSigned(t, "draw/commit", codec.DrawCommitTx{Digest: digest}, 1)))
	ev := findEvent(res.Events, "RoundCommitted")
	if ev == nil {
		t.Fatalf("missing RoundCommitted event")
	}
	if got := attr(ev, "digest"); got != fmt.Sprintf("0x%x", digest) {
		t.Fatalf("digest attr = %q", got)
	}
	if attr(ev, "roundSeq") != "1" {
		t.Fatalf("roundSeq attr = %q", attr(ev, "roundSeq"))
	}

	// Reveal.
	res = mustOk(t, a.deliverTx(txBytesSigned(t, "draw/reveal", codec.DrawRevealTx{Secret: secret}, 2)))
	ev = findEvent(res.Events, "RoundRevealed")
	if ev == nil {
		t.Fatalf("missing RoundRevealed event")
	}
	if got := attr(ev, "secret"); got != fmt.Sprintf("0x%x", secret) {
		t.Fatalf("secret attr = %q", got)
	}

	// The exposed permutation equals an independent derivation.
	want := shuffle.Derive(secret, testDeckSize)
	var perm []cards.Card
	queryValue(t, a, "/permutation", &perm)
	if len(perm) != testDeckSize {
		t.Fatalf("permutation length %d", len(perm))
	}
	for i := range want {
		if perm[i] != want[i] {
			t.Fatalf("permutation[%d] = %d, want %d", i, perm[i], want[i])
		}
	}

	// Draws come back in exact permutation order, visible to any caller.
	for i := 0; i < testDeckSize; i++ {
		caller := fmt.Sprintf("player-%d", i)
		res = mustOk(t, a.deliverTx(txBytes(t, "draw/card", codec.DrawCardTx{Caller: caller})))
		ev = findEvent(res.Events, "CardDrawn")
		if ev == nil {
			t.Fatalf("draw %d: missing CardDrawn event", i)
		}
		if attr(ev, "caller") != caller {
			t.Fatalf("draw %d: caller attr = %q", i, attr(ev, "caller"))
		}
		card, err := strconv.Atoi(attr(ev, "card"))
		if err != nil || cards.Card(card) != want[i] {
			t.Fatalf("draw %d: card attr = %q, want %d", i, attr(ev, "card"), want[i])
		}
		if attr(ev, "pos") != strconv.Itoa(i) {
			t.Fatalf("draw %d: pos attr = %q", i, attr(ev, "pos"))
		}
	}

	// Exhausted.
	res = mustFail(t, a.deliverTx(txBytes(t, "draw/card", codec.DrawCardTx{Caller: "late"})))
	if res.Log != round.ErrDeckExhausted.Error() {
		t.Fatalf("unexpected log %q", res.Log)
	}

	var status roundView
	queryValue(t, a, "/round", &status)
	if status.Phase != string(round.PhaseExhausted) || status.Remaining != 0 {
		t.Fatalf("unexpected round view: %+v", status)
	}

	// Reset starts round 2 with a full deck.
	res = mustOk(t, a.deliverTx(txBytesSigned(t, "draw/reset", codec.DrawResetTx{}, 3)))
	ev = findEvent(res.Events, "RoundReset")
	if ev == nil || attr(ev, "roundSeq") != "2" {
		t.Fatalf("bad RoundReset event: %+v", ev)
	}
	queryValue(t, a, "/round", &status)
	if status.Phase != string(round.PhaseIdle) || status.Remaining != testDeckSize || status.RoundSeq != 2 {
		t.Fatalf("unexpected post-reset view: %+v", status)
	}
}

func TestDrawBeforeRevealRejected(t *testing.T) {
	a := newTestApp(t)

	res := mustFail(t, a.deliverTx(txBytes(t, "draw/card", codec.DrawCardTx{Caller: "alice"})))
	if res.Log != round.ErrNotRevealed.Error() {
		t.Fatalf("unexpected log %q", res.Log)
	}

	mustOk(t, a.deliverTx(txBytesSigned(t, "draw/commit", codec.DrawCommitTx{Digest: round.DigestSecret([]byte("s"))}, 1)))
	res = mustFail(t, a.deliverTx(txBytes(t, "draw/card", codec.DrawCardTx{Caller: "alice"})))
	if res.Log != round.ErrNotRevealed.Error() {
		t.Fatalf("unexpected log %q", res.Log)
	}
}

func TestSignedDrawCardMustMatchCaller(t *testing.T) {
	a := newTestApp(t)
	secret := []byte("s")
	mustOk(t, a.deliverTx(txBytesSigned(t, "draw/commit", codec.DrawCommitTx{Digest: round.DigestSecret(secret)}, 1)))
	mustOk(t, a.deliverTx(txBytesSigned(t, "draw/reveal", codec.DrawRevealTx{Secret: secret}, 2)))

	// Authority-signed draw claiming a different caller is rejected.
	mustFail(t, a.deliverTx(txBytesSigned(t, "draw/card", codec.DrawCardTx{Caller: "alice"}, 3)))

	mustOk(t, a.deliverTx(txBytesSigned(t, "draw/card", codec.DrawCardTx{Caller: testAuthority}, 3)))
}

// Two nodes delivering the same block of txs must land on the same AppHash.
func TestFinalizeBlockDeterministic(t *testing.T) {
	secret := []byte("replay")
	txs := [][]byte{
		txBytesSigned(t, "draw/commit", codec.DrawCommitTx{Digest: round.DigestSecret(secret)}, 1),
		txBytesSigned(t, "draw/reveal", codec.DrawRevealTx{Secret: secret}, 2),
		txBytes(t, "draw/card", codec.DrawCardTx{Caller: "alice"}),
		txBytes(t, "draw/card", codec.DrawCardTx{Caller: "bob"}),
	}

	hashes := make([][]byte, 0, 2)
	for i := 0; i < 2; i++ {
		a := newTestApp(t)
		res, err := a.FinalizeBlock(context.Background(), &abci.FinalizeBlockRequest{Height: 1, Txs: txs})
		if err != nil {
			t.Fatalf("FinalizeBlock: %v", err)
		}
		for j, txRes := range res.TxResults {
			if txRes.Code != 0 {
				t.Fatalf("tx %d failed: %s", j, txRes.Log)
			}
		}
		hashes = append(hashes, res.AppHash)
	}
	if string(hashes[0]) != string(hashes[1]) {
		t.Fatalf("app hash diverged: %x vs %x", hashes[0], hashes[1])
	}
}

func TestRestartKeepsRound(t *testing.T) {
	home := t.TempDir()
	pub := testAuthorityPriv().Public().(ed25519.PublicKey)
	cfg := Config{DeckSize: testDeckSize, Authority: testAuthority, AuthorityKey: pub}
	ctx := context.Background()

	a, err := New(home, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	secret := []byte("persisted")
	res, err := a.FinalizeBlock(ctx, &abci.FinalizeBlockRequest{Height: 1, Txs: [][]byte{
		txBytesSigned(t, "draw/commit", codec.DrawCommitTx{Digest: round.DigestSecret(secret)}, 1),
		txBytesSigned(t, "draw/reveal", codec.DrawRevealTx{Secret: secret}, 2),
		txBytes(t, "draw/card", codec.DrawCardTx{Caller: "alice"}),
	}})
	if err != nil {
		t.Fatalf("FinalizeBlock: %v", err)
	}
	for i, txRes := range res.TxResults {
		if txRes.Code != 0 {
			t.Fatalf("tx %d failed: %s", i, txRes.Log)
		}
	}
	if _, err := a.Commit(ctx, &abci.CommitRequest{}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	b, err := New(home, cfg)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	info, err := b.Info(ctx, &abci.InfoRequest{})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.LastBlockHeight != 1 {
		t.Fatalf("height = %d after restart", info.LastBlockHeight)
	}
	if string(info.LastBlockAppHash) != string(res.AppHash) {
		t.Fatalf("app hash changed across restart")
	}
	if b.st.Round.Phase != round.PhaseRevealed || b.st.Round.Cursor != 1 {
		t.Fatalf("round state lost: phase=%s cursor=%d", b.st.Round.Phase, b.st.Round.Cursor)
	}
}
