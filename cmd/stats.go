package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/status"
	"github.com/abhisek/hanmadi/internal/ui/components"
	"github.com/abhisek/hanmadi/internal/ui/theme"
)

const (
	statsNameWidth = 28
	statsBarWidth  = 20
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mastery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		concepts := st.ConceptStore()

		sum, err := status.NewService(concepts, st.StatusRepo(), nil).Summary(ctx)
		if err != nil {
			return fmt.Errorf("compute status: %w", err)
		}
		fmt.Println(theme.Title.Render("hanmadi"))
		fmt.Printf("Level: %s   Known words: %d   Grammar mastered: %d   Focus: %s\n\n",
			sum.Level, sum.KnownVocab, sum.GrammarMastered, sum.WeakFocus)

		opts := concept.ListOptions{Order: concept.OrderWeakestFirst, Limit: limit}

		grammar, err := concepts.ListGrammar(ctx, opts)
		if err != nil {
			return fmt.Errorf("list grammar: %w", err)
		}
		fmt.Println(theme.Heading.Render("Grammar (weakest first)"))
		if len(grammar) == 0 {
			fmt.Println(theme.Dim.Render("  nothing studied yet"))
		}
		for _, g := range grammar {
			line := "  " + components.Pad(g.Pattern, statsNameWidth) + "  " + components.ScoreBar(g.MasteryScore, statsBarWidth)
			if len(g.WeaknessFlags) > 0 {
				line += "  " + theme.Dim.Render(strings.Join(g.WeaknessFlags, ", "))
			}
			fmt.Println(line)
		}

		vocab, err := concepts.ListVocabulary(ctx, concept.VocabularyFilter{}, opts)
		if err != nil {
			return fmt.Errorf("list vocabulary: %w", err)
		}
		fmt.Println()
		fmt.Println(theme.Heading.Render("Vocabulary (weakest first)"))
		if len(vocab) == 0 {
			fmt.Println(theme.Dim.Render("  no words yet"))
		}
		for _, v := range vocab {
			fmt.Printf("  %s  %s  %s\n",
				components.Pad(v.WordKorean, statsNameWidth),
				components.ScoreBar(v.MasteryScore, statsBarWidth),
				theme.Dim.Render(fmt.Sprintf("✓%d ✗%d", v.TimesCorrect, v.TimesIncorrect)),
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Rows per table (0 = all)")
}
