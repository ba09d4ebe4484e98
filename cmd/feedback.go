package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Give and review feedback",
}

var feedbackGiveCmd = &cobra.Command{
	Use:   "give <target>",
	Short: "Give feedback in plain line mode, without the full-screen UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		e.connectLLM(cmd, os.Stderr)

		sess, err := e.newSession(assessorName(cmd, e.cfg), args[0], nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx := cmd.Context()
		turn, err := sess.Start(ctx)
		if err != nil {
			return err
		}

		in := bufio.NewScanner(os.Stdin)
		for {
			for _, m := range turn.Messages {
				if m.Speaker == feedback.SpeakerAssistant {
					fmt.Printf("\nFIDO: %s\n", m.Text)
				}
			}
			for i, c := range turn.Choices {
				fmt.Printf("  %d) %s\n", i+1, c)
			}
			if turn.Record != nil {
				return nil
			}

			fmt.Print("> ")
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return err
				}
				return errors.New("feedback abandoned")
			}
			answer := pickChoice(strings.TrimSpace(in.Text()), turn.Choices)

			turn, err = sess.Submit(ctx, answer)
			if err != nil && turn.Record == nil {
				return err
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, "warning: feedback recorded but not fully delivered:", err)
			}
			if turn.AnalysisErr != nil {
				fmt.Fprintln(os.Stderr, "warning: language notes unavailable:", turn.AnalysisErr)
			}
		}
	},
}

// pickChoice maps a 1-based number to its choice text.
func pickChoice(input string, choices []string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	return input
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed feedback, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := feedback.ListRecords(cmd.Context(), st.FeedbackRepo(), target, limit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No feedback recorded yet.")
			return nil
		}

		fmt.Printf("%-26s  %-16s  %-16s  %-16s  %s\n", "ID", "Completed", "Assessor", "Target", "Level")
		fmt.Println(strings.Repeat("─", 96))
		for _, r := range recs {
			level := "-"
			if r.LanguageNotes != nil && r.LanguageNotes.Level != "" {
				level = r.LanguageNotes.Level
			}
			fmt.Printf("%-26s  %-16s  %-16s  %-16s  %s\n",
				r.ID, r.CompletedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.Assessor, 16), truncate(r.Target, 16), level)
		}
		return nil
	},
}

var feedbackShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one feedback record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := feedback.ListRecords(cmd.Context(), st.FeedbackRepo(), "", 0)
		if err != nil {
			return err
		}
		for _, r := range recs {
			if r.ID != args[0] {
				continue
			}
			fmt.Printf("Feedback from %s for %s (%s)\n\n", r.Assessor, r.Target, r.CompletedAt.Local().Format("2006-01-02 15:04"))
			fmt.Println(r.Summary)
			if n := r.LanguageNotes; n != nil {
				fmt.Printf("\nLanguage level: %s\n", n.Level)
				for _, s := range n.Suggestions {
					fmt.Printf("  • %s\n", s)
				}
			}
			return nil
		}
		return fmt.Errorf("feedback %s not found", args[0])
	},
}

func init() {
	feedbackListCmd.Flags().StringP("target", "t", "", "Only feedback about this person")
	feedbackListCmd.Flags().IntP("limit", "n", 20, "Number of records to show")

	feedbackCmd.AddCommand(feedbackGiveCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	feedbackCmd.AddCommand(feedbackShowCmd)
}
