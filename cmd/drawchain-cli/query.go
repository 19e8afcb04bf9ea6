package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ap-arnab/DrawChain/internal/cards"
)

// roundStatus mirrors the /round query response.
type roundStatus struct {
	Phase           string `json:"phase"`
	RoundSeq        uint64 `json:"roundSeq"`
	DeckSize        int    `json:"deckSize"`
	Cursor          int    `json:"cursor"`
	Remaining       int    `json:"remaining"`
	CommittedDigest string `json:"committedDigest,omitempty"`
	DisclosedSecret []byte `json:"disclosedSecret,omitempty"`
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current round",
		RunE: func(_ *cobra.Command, _ []string) error {
			var st roundStatus
			if err := queryJSON("/round", &st); err != nil {
				return err
			}
			digest := st.CommittedDigest
			if digest == "" {
				digest = "-"
			}
			secret := "-"
			if len(st.DisclosedSecret) > 0 {
				secret = fmt.Sprintf("0x%x", st.DisclosedSecret)
			}
			return pterm.DefaultTable.WithData(pterm.TableData{
				{"round", fmt.Sprintf("%d", st.RoundSeq)},
				{"phase", st.Phase},
				{"deck size", fmt.Sprintf("%d", st.DeckSize)},
				{"drawn", fmt.Sprintf("%d", st.Cursor)},
				{"remaining", fmt.Sprintf("%d", st.Remaining)},
				{"committed digest", digest},
				{"disclosed secret", secret},
			}).Render()
		},
	}
}

func permutationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permutation",
		Short: "Print the revealed deck order",
		RunE: func(_ *cobra.Command, _ []string) error {
			var perm []cards.Card
			if err := queryJSON("/permutation", &perm); err != nil {
				return err
			}
			if len(perm) == 0 {
				pterm.Info.Println("round not revealed yet")
				return nil
			}
			names := make([]string, len(perm))
			for i, c := range perm {
				names[i] = c.String()
			}
			pterm.DefaultBox.WithTitle("deck order").Println(strings.Join(names, " "))
			return nil
		},
	}
}
