package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/store"
	"github.com/abhisek/hanmadi/internal/ui/components"
	"github.com/abhisek/hanmadi/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect oracle requests, token usage and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent oracle requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println(theme.Dim.Render("No oracle requests recorded."))
			return nil
		}

		fmt.Println(theme.Heading.Render(fmt.Sprintf("%-5s  %-19s  %-10s  %-28s  %6s  %6s  %7s  %s",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")))
		for _, e := range events {
			ok := theme.OK.Render("✓")
			if !e.Success {
				ok = theme.Failed.Render("✗")
			}
			fmt.Printf("%-5d  %-19s  %-10s  %s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				components.Pad(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one oracle call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		outcome := theme.OK.Render("ok")
		if !e.Success {
			outcome = theme.Failed.Render("failed")
		}
		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:  %s\n", e.Provider)
		fmt.Printf("Model:     %s\n", e.Model)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Outcome:   %s\n", outcome)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", theme.Failed.Render(e.ErrorMessage))
		}

		printSection("REQUEST", e.RequestBody)
		printSection("RESPONSE", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		usage, err := st.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println(theme.Dim.Render("No oracle usage recorded yet."))
			return nil
		}

		fmt.Println(theme.Title.Render("Usage by purpose"))
		fmt.Println(theme.Heading.Render(fmt.Sprintf("%-12s  %6s  %10s  %10s  %10s  %8s",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")))
		var calls, in, out int
		for _, u := range usage {
			fmt.Printf("%-12s  %6d  %10d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		fmt.Println(theme.Rule.Render(strings.Repeat("─", 66)))
		fmt.Printf("%-12s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

		models, err := st.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(models) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println(theme.Title.Render("Estimated cost (USD)"))
		fmt.Println(theme.Heading.Render(fmt.Sprintf("%-32s  %6s  %10s  %10s  %10s",
			"Model", "Calls", "Input", "Output", "Cost")))

		var total float64
		var unknown []string
		for _, m := range models {
			cost := "?"
			if p := llm.LookupCost(m.Model); p != nil {
				c := p.Cost(m.InputTokens, m.OutputTokens)
				total += c
				cost = formatCost(c)
			} else {
				unknown = append(unknown, m.Model)
			}
			fmt.Printf("%s  %6d  %10d  %10d  %10s\n",
				components.Pad(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
		}
		fmt.Println(theme.Rule.Render(strings.Repeat("─", 76)))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
		if len(unknown) > 0 {
			fmt.Println(theme.Dim.Render("\nPricing unavailable for: " + strings.Join(unknown, ", ")))
		}
		return nil
	},
}

func printSection(title, body string) {
	sep := theme.Rule.Render(strings.Repeat("─", 60))
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(theme.Heading.Render(title))
	fmt.Println(sep)
	if body == "" {
		fmt.Println(theme.Dim.Render("(not captured)"))
		return
	}
	fmt.Println(body)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (lesson, exercise, evaluation)")
	llmListCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
