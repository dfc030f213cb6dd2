package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"corpusmix/internal/corpus"
	"corpusmix/internal/preflight"
)

func runMerge(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := ctx.openSession(signalCtx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer session.close()

	if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg)); len(failed) > 0 {
		return preflightError(failed)
	}

	pipeline := &corpus.Pipeline{Config: cfg, Prober: session.prober, Logger: session.logger}
	report, err := pipeline.Run(signalCtx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Done.")
	fmt.Fprintln(out, renderMergeSummary(report))
	fmt.Fprintf(out, "%d clips (%s) copied to %s in %s\n",
		report.Stats.ClipsCopied,
		humanize.IBytes(uint64(max(report.Stats.BytesCopied, 0))),
		cfg.Paths.PoolDir,
		report.Elapsed.Round(time.Millisecond),
	)
	return nil
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}

func renderMergeSummary(report *corpus.Report) string {
	rows := make([][]string, 0, len(report.Accepted))
	for _, acc := range report.Accepted {
		rows = append(rows, []string{
			strconv.Itoa(acc.SequenceID),
			acc.Name,
			strconv.Itoa(len(acc.Train)),
			strconv.Itoa(len(acc.Val)),
			formatMinutes(acc.TotalMinutes),
		})
	}
	return renderTable(
		[]string{"ID", "Dataset", "Train", "Val", "Minutes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
	)
}

func formatMinutes(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', 2, 64)
}
