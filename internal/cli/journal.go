package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/beanstalk/internal/domain"
	"github.com/MrSnakeDoc/beanstalk/internal/journal"
)

// errResetNotConfirmed is returned by reset without --yes.
var errResetNotConfirmed = errors.New("refusing to reset without --yes")

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resetCmd)

	showCmd.Flags().Bool("json", false, "Print the journal as JSON")
	showCmd.Flags().IntP("limit", "n", 10, "Number of entries to list (0 = all)")
	resetCmd.Flags().Bool("yes", false, "Confirm deleting every entry and the streak")
}

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Log a good deed",
	Example: `  beanstalk add "Donated books to the library"
  beanstalk add helped my neighbour move`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	res, err := core.Journal.Submit(cmd.Context(), strings.Join(args, " "), core.Clock())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cat, _ := core.Journal.Category(res.Entry.Category)
	fmt.Fprintf(out, "🌱 +%d %s: %s\n", res.Entry.Points, cat.Label, res.Entry.Text)
	printStreak(out, res.Snapshot)
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", w)
	}
	return nil
}

var previewCmd = &cobra.Command{
	Use:   "preview TEXT...",
	Short: "Show which category a deed would get, without logging it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	cat, ok := core.Journal.Preview(strings.Join(args, " "))
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Keep typing: more than %d characters are needed.\n", journal.PreviewMinLength)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (+%d)\n", cat.Label, cat.Points)
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the journal, total points and streak",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")

	core, err := openCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	snap := core.Journal.Snapshot()
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Fprintf(out, "Total: %d points across %d deeds\n", snap.TotalPoints, len(snap.Entries))
	printStreak(out, snap)

	entries := snap.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	var day domain.Date
	for _, e := range entries {
		if d := e.Date(); d != day {
			fmt.Fprintf(out, "%s\n", d)
			day = d
		}
		fmt.Fprintf(out, "  %s  %-10s +%-3d %s\n", e.Timestamp.Format("15:04"), e.Category, e.Points, e.Text)
	}
	if len(entries) < len(snap.Entries) {
		fmt.Fprintf(out, "  … %d older\n", len(snap.Entries)-len(entries))
	}
	return nil
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every entry and the streak",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errResetNotConfirmed
	}

	core, err := openCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	if err := core.Journal.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared.")
	return nil
}

func printStreak(out io.Writer, snap journal.Snapshot) {
	switch {
	case snap.Hot:
		fmt.Fprintf(out, "🔥 %d day streak\n", snap.Streak)
	case snap.Streak > 0:
		fmt.Fprintf(out, "Streak: %d day(s)\n", snap.Streak)
	case !snap.LastLogDate.IsZero():
		fmt.Fprintf(out, "Streak: 0 (last deed on %s)\n", snap.LastLogDate)
	default:
		fmt.Fprintf(out, "Streak: 0, log a deed to start one (%d days makes it hot)\n", domain.HotStreakThreshold)
	}
}
