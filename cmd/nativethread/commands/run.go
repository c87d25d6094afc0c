package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/nativethread/pkg/cli"
	"github.com/haivivi/nativethread/pkg/nativethread"
	"github.com/haivivi/nativethread/pkg/nativethread/supervisor"
	"github.com/haivivi/nativethread/pkg/runlog"
)

var (
	runEntry          string
	runLabel          string
	runSleep          time.Duration
	runInterruptAfter time.Duration
	runWait           time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch a native routine on a hard-cancellable thread",
	Long: `Launch one of the built-in native routines on a new detached thread,
optionally interrupt it after a delay, and report the outcome.

Built-in entries:
  return  returns immediately
  sleep   sleeps for --sleep, then returns
  spin    busy-loops forever (only asynchronous cancellation stops it)
  block   blocks forever in pause(2)

Interrupting spin or block is the whole point; running them without
--interrupt-after blocks until --wait expires.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEntry, "entry", "", "entry point: return, sleep, spin, block")
	runCmd.Flags().StringVar(&runLabel, "label", "", "label journaled with the run")
	runCmd.Flags().DurationVar(&runSleep, "sleep", 50*time.Millisecond, "duration of the sleep entry")
	runCmd.Flags().DurationVar(&runInterruptAfter, "interrupt-after", 0, "interrupt the run after this delay (0 = never)")
	runCmd.Flags().DurationVar(&runWait, "wait", 30*time.Second, "give up waiting for an outcome after this long")
	rootCmd.AddCommand(runCmd)
}

// resolveEntry maps an entry name to its built-in entry point.
func resolveEntry(name string) (nativethread.EntryPoint, error) {
	switch name {
	case "return":
		return nativethread.EntryReturn(), nil
	case "sleep":
		nativethread.SetSleepDuration(runSleep)
		return nativethread.EntrySleep(), nil
	case "spin":
		return nativethread.EntrySpin(), nil
	case "block":
		return nativethread.EntryBlock(), nil
	}
	return 0, fmt.Errorf("unknown entry %q (want return, sleep, spin or block)", name)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	styles := cli.DefaultStyles()

	entryName := runEntry
	if entryName == "" {
		entryName = cfg.DefaultEntry
	}
	if entryName == "" {
		entryName = "sleep"
	}
	entry, err := resolveEntry(entryName)
	if err != nil {
		return err
	}

	journal, err := runlog.NewBadger(runlog.BadgerOptions{Dir: cfg.ResolveJournalDir()})
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()

	sup, err := supervisor.New(supervisor.Options{Journal: journal, Logger: logger})
	if err != nil {
		return err
	}
	defer sup.Close()

	label := runLabel
	if label == "" {
		label = entryName
	}

	ctx := cmd.Context()
	run, err := sup.Launch(ctx, supervisor.RunSpec{
		Label:   label,
		Entry:   entry,
		Payload: label,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%s)\n", styles.RenderState("launched"), run.ID(), label)

	if runInterruptAfter > 0 {
		time.AfterFunc(runInterruptAfter, func() {
			if err := sup.Interrupt(run.ID()); err != nil {
				logger.Warn("interrupt failed", "run", run.ID(), "error", err)
			}
		})
	}

	wctx, cancel := context.WithTimeout(ctx, runWait)
	defer cancel()
	state, err := run.Wait(wctx)
	if err != nil {
		return fmt.Errorf("run %s still %s after %s: %w", run.ID(), state, runWait, err)
	}

	fmt.Printf("%s %s after %s\n",
		styles.RenderState(string(state)), run.ID(),
		cli.FormatDuration(time.Since(run.Started())))
	return nil
}
