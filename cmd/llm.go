package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/abhisek/fido/internal/llm"
	"github.com/abhisek/fido/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model calls behind questions and language feedback",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		return writeEventTable(cmd.OutOrStdout(), events)
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id %q is not a number", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no event with id %d", id)
		}
		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		log := s.EventRepo()
		byPurpose, err := log.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		byModel, err := log.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}
		return writeUsage(cmd.OutOrStdout(), byPurpose, byModel)
	},
}

func writeEventTable(out io.Writer, events []store.LLMEventRecord) error {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM calls recorded.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tWhen\tPurpose\tSession\tModel\tIn\tOut\tms\t\t")
	for _, e := range events {
		mark := "ok"
		if !e.Success {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t\n",
			e.ID, e.Timestamp.Local().Format("01-02 15:04"), e.Purpose,
			orDash(truncate(e.SessionID, 8)), truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, mark)
	}
	return w.Flush()
}

func writeEvent(out io.Writer, e *store.LLMEventRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	row := func(k string, v any) { fmt.Fprintf(w, "%s:\t%v\n", k, v) }
	row("ID", e.ID)
	row("Time", e.Timestamp.Local().Format(time.DateTime))
	row("Backend", e.Provider+" / "+e.Model)
	row("Purpose", e.Purpose)
	row("Session", orDash(e.SessionID))
	row("Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens))
	row("Latency", time.Duration(e.LatencyMs)*time.Millisecond)
	if e.ErrorMessage != "" {
		row("Error", e.ErrorMessage)
	}
	w.Flush()

	section := func(title, body string) {
		fmt.Fprintf(out, "\n── %s %s\n", title, strings.Repeat("─", max(0, 56-len(title))))
		if body == "" {
			body = "(empty)"
		}
		fmt.Fprintln(out, strings.TrimRight(body, "\n"))
	}
	section("request", e.RequestBody)
	section("response", e.ResponseBody)
}

func writeUsage(out io.Writer, byPurpose []store.LLMPurposeUsage, byModel []store.LLMModelUsage) error {
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Purpose\tCalls\tIn\tOut\tAvg ms\t")
	var calls, in, outTok int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls, in, outTok = calls+u.Calls, in+u.InputTokens, outTok+u.OutputTokens
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t\t\n", calls, in, outTok)
	if err := w.Flush(); err != nil {
		return err
	}
	if len(byModel) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Model\tCalls\tEst. USD\t")
	var spend float64
	var unpriced []string
	for _, u := range byModel {
		price := llm.LookupCost(u.Model)
		if price == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Fprintf(w, "%s\t%d\t?\t\n", truncate(u.Model, 36), u.Calls)
			continue
		}
		c := price.Cost(u.InputTokens, u.OutputTokens)
		spend += c
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", truncate(u.Model, 36), u.Calls, formatCost(c))
	}
	fmt.Fprintf(w, "total\t\t%s\t\n", formatCost(spend))
	if err := w.Flush(); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "No price known for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	f := llmListCmd.Flags()
	f.IntP("limit", "n", 20, "Maximum number of calls to show")
	f.StringP("purpose", "p", "", "Only calls with this purpose (question-gen, language-feedback)")
	f.Duration("since", 0, "Only calls newer than this, e.g. 24h")
	f.StringP("session", "s", "", "Only calls made by one feedback session")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
