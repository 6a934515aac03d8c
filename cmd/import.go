package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanmadi/internal/ui/theme"
	"github.com/abhisek/hanmadi/internal/vocabimport"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Seed vocabulary or grammar concepts from a spreadsheet",
	Long: `Reads column A (word or grammar pattern) and optional column B (initial
mastery score, default 0) starting at row 2. Concepts that already exist are
left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := vocabimport.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		cfg := vocabimport.DefaultConfig(args[0])
		cfg.Kind = kind
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		cfg.StartRow, _ = cmd.Flags().GetInt("start-row")

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := vocabimport.New(st.ConceptStore()).Import(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		fmt.Println(theme.Title.Render(fmt.Sprintf("Imported %s", kind)))
		fmt.Printf("  rows:     %d\n", res.Processed)
		fmt.Printf("  created:  %s\n", theme.OK.Render(fmt.Sprint(res.Created)))
		fmt.Printf("  existing: %d\n", res.Existing)
		fmt.Printf("  skipped:  %d\n", res.Skipped)
		for _, e := range res.Errors {
			fmt.Println(theme.Failed.Render("  " + e))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "Sheet1", "Worksheet to read (xlsx only)")
	importCmd.Flags().String("kind", "vocab", "What the rows contain: vocab or grammar")
	importCmd.Flags().Int("start-row", 2, "First data row (1-based)")
}
