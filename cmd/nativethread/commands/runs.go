package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/nativethread/pkg/cli"
	"github.com/haivivi/nativethread/pkg/runlog"
)

var runsDangling bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List journaled runs",
	Long: `List runs from the journal with their outcome and duration.

With --dangling, only runs left in the launched state by a previous process
are shown: those threads never reached an outcome dispatch, which for a
detached native thread means the process died around them.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&runsDangling, "dangling", false, "show only runs with no journaled outcome")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	styles := cli.DefaultStyles()

	journal, err := runlog.NewBadger(runlog.BadgerOptions{Dir: cfg.ResolveJournalDir()})
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()

	ctx := cmd.Context()
	count := 0
	for rec, err := range journal.List(ctx) {
		if err != nil {
			return fmt.Errorf("list journal: %w", err)
		}
		if runsDangling && rec.Terminal() {
			continue
		}
		count++
		label := rec.Label
		if label == "" {
			label = styles.Dim.Render("-")
		}
		fmt.Printf("%s  %-10s %-12s %s\n",
			rec.ID,
			styles.RenderState(rec.State),
			cli.FormatDuration(rec.Duration()),
			label)
	}
	if count == 0 {
		fmt.Println(styles.Dim.Render("no runs"))
	}
	return nil
}
