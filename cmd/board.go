package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"leaderboard"},
	Short:   "Show the points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		standings, err := e.board.Leaderboard(cmd.Context())
		if err != nil {
			return err
		}
		if len(standings) == 0 {
			fmt.Println("Nobody has earned points yet.")
			return nil
		}

		me := assessorName(cmd, e.cfg)
		fmt.Printf("%4s  %-24s  %8s  %s\n", "#", "Name", "Points", "Rank")
		fmt.Println(strings.Repeat("─", 56))
		for _, s := range standings {
			marker := " "
			if s.User.ID == me {
				marker = "▸"
			}
			fmt.Printf("%s%3d  %-24s  %8d  %s\n",
				marker, s.Position, truncate(s.User.Name, 24), s.User.Points, s.Tier.Label())
		}
		return nil
	},
}

var boardMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your points, rank, and recent awards",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.board.Profile(cmd.Context(), assessorName(cmd, e.cfg))
		if err != nil {
			return err
		}
		tiers := e.board.Tiers()
		fmt.Printf("Rank:     %s\n", tiers.TierFor(p.Earned).Label())
		fmt.Printf("Earned:   %d\n", p.Earned)
		fmt.Printf("Balance:  %d\n", p.Balance)
		if need, next, ok := tiers.PointsToNext(p.Earned); ok {
			fmt.Printf("Next:     %d more for %s\n", need, next.Label())
		}

		if len(p.Awards) > 0 {
			fmt.Println()
			fmt.Println("Recent awards")
			start := max(0, len(p.Awards)-10)
			for i := len(p.Awards) - 1; i >= start; i-- {
				a := p.Awards[i]
				fmt.Printf("  %s  +%-4d %s\n", a.AwardedAt.Local().Format("2006-01-02"), a.Points, a.Reason)
			}
		}
		return nil
	},
}

var boardRewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "List rewards points can be redeemed for",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, r := range e.board.Rewards() {
			avail := ""
			if !r.Available {
				avail = "  (unavailable)"
			}
			fmt.Printf("%-18s %6d pts  %s%s\n", r.ID, r.Cost, r.Name, avail)
			if r.Description != "" {
				fmt.Printf("%-18s             %s\n", "", r.Description)
			}
		}
		return nil
	},
}

var boardRedeemCmd = &cobra.Command{
	Use:   "redeem <reward-id>",
	Short: "Spend points on a reward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		user := assessorName(cmd, e.cfg)
		r, err := e.board.Redeem(cmd.Context(), user, args[0])
		if err != nil {
			return err
		}
		p, err := e.board.Profile(cmd.Context(), user)
		if err != nil {
			return err
		}
		fmt.Printf("Redeemed %s for %d points. Balance: %d\n", r.RewardID, r.Cost, p.Balance)
		return nil
	},
}

func init() {
	boardCmd.AddCommand(boardMeCmd)
	boardCmd.AddCommand(boardRewardsCmd)
	boardCmd.AddCommand(boardRedeemCmd)
}
