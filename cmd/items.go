package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/fido/internal/workitem"
	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:     "items",
	Aliases: []string{"workitems"},
	Short:   "Log and review work items",
}

var itemsLogCmd = &cobra.Command{
	Use:   "log <title>",
	Short: "Log a new work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		desc, _ := cmd.Flags().GetString("desc")
		typ, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")
		complexity, _ := cmd.Flags().GetInt("complexity")
		techs, _ := cmd.Flags().GetStringSlice("tech")
		skills, _ := cmd.Flags().GetStringSlice("skill")

		item := workitem.Item{
			UserID:        assessorName(cmd, e.cfg),
			Title:         args[0],
			Description:   desc,
			Type:          workitem.Type(typ),
			Status:        workitem.Status(status),
			Complexity:    complexity,
			Technologies:  techs,
			RelatedSkills: skills,
		}
		if cmd.Flags().Changed("hours") {
			h, _ := cmd.Flags().GetFloat64("hours")
			item.TimeSpent = &h
		}

		logged, err := e.items.Log(cmd.Context(), item)
		if err != nil {
			return err
		}
		fmt.Printf("Logged %s  %s (%s, %s)\n", logged.ID, logged.Title, logged.Type, logged.Status.Label())
		return nil
	},
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your work items",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.items.List(cmd.Context(), assessorName(cmd, e.cfg))
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No work items logged yet.")
			return nil
		}

		fmt.Printf("%-26s  %-13s  %-11s  %3s  %6s  %s\n", "ID", "Type", "Status", "Cx", "Hours", "Title")
		fmt.Println(strings.Repeat("─", 90))
		for _, it := range items {
			hours := "-"
			if it.TimeSpent != nil {
				hours = fmt.Sprintf("%.1f", *it.TimeSpent)
			}
			fmt.Printf("%-26s  %-13s  %-11s  %3d  %6s  %s\n",
				it.ID, it.Type, it.Status.Label(), it.Complexity, hours, truncate(it.Title, 40))
		}
		return nil
	},
}

var itemsStatusCmd = &cobra.Command{
	Use:   "status <id> <planned|in_progress|completed>",
	Short: "Move a work item to another status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		status := workitem.Status(args[1])
		patch := workitem.Patch{Status: &status}
		if cmd.Flags().Changed("hours") {
			h, _ := cmd.Flags().GetFloat64("hours")
			patch.TimeSpent = &h
		}
		it, err := e.items.Update(cmd.Context(), assessorName(cmd, e.cfg), args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", it.Title, it.Status.Label())
		return nil
	},
}

var itemsCommentCmd = &cobra.Command{
	Use:   "comment <id> <text>",
	Short: "Add a comment to a work item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		user := assessorName(cmd, e.cfg)
		if _, err := e.items.AddComment(cmd.Context(), user, args[0], user, args[1]); err != nil {
			return err
		}
		fmt.Println("Comment added.")
		return nil
	},
}

var itemsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show work item statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := e.items.Dashboard(cmd.Context(), assessorName(cmd, e.cfg))
		if err != nil {
			return err
		}

		fmt.Printf("Total items:          %d\n", d.TotalItems)
		for _, sc := range d.ItemsByStatus {
			fmt.Printf("  %-19s %d\n", sc.Status.Label()+":", sc.Count)
		}
		fmt.Printf("Avg completion time:  %.1fh\n", d.AverageCompletionTime)

		if len(d.TimeSpentByType) > 0 {
			fmt.Println()
			fmt.Println("Hours by type")
			for _, th := range d.TimeSpentByType {
				fmt.Printf("  %-15s %6.1f\n", th.Type, th.Hours)
			}
		}
		if len(d.RecentItems) > 0 {
			fmt.Println()
			fmt.Println("Recent")
			for _, it := range d.RecentItems {
				fmt.Printf("  %s  %-11s  %s\n", it.StartDate.Local().Format("2006-01-02"), it.Status.Label(), it.Title)
			}
		}
		return nil
	},
}

func init() {
	itemsLogCmd.Flags().StringP("desc", "d", "", "Description (required)")
	itemsLogCmd.Flags().StringP("type", "t", string(workitem.TypeFeature), "feature, bug, improvement, or documentation")
	itemsLogCmd.Flags().StringP("status", "s", string(workitem.StatusPlanned), "planned, in_progress, or completed")
	itemsLogCmd.Flags().IntP("complexity", "c", 3, "Complexity from 1 to 5")
	itemsLogCmd.Flags().Float64("hours", 0, "Hours spent")
	itemsLogCmd.Flags().StringSlice("tech", nil, "Technologies used (repeatable)")
	itemsLogCmd.Flags().StringSlice("skill", nil, "Related skills (repeatable)")

	itemsStatusCmd.Flags().Float64("hours", 0, "Hours spent")

	itemsCmd.AddCommand(itemsLogCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsStatusCmd)
	itemsCmd.AddCommand(itemsCommentCmd)
	itemsCmd.AddCommand(itemsDashboardCmd)
}
