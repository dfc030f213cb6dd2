package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"corpusmix/internal/corpus"
	"corpusmix/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which datasets would be merged without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			session, err := ctx.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out)

			pipeline := &corpus.Pipeline{Config: cfg, Prober: session.prober, Logger: session.logger}
			plan, err := pipeline.Plan(cmd.Context())
			if err != nil {
				return err
			}

			for _, line := range renderSectionHeader("Datasets", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderPlanTable(plan))
			fmt.Fprintln(out, renderStatusLine("Speakers", planKind(plan), fmt.Sprintf("%d of %d datasets accepted", len(plan.Accepted), len(plan.Outcomes)), colorize))
			return nil
		},
	}
}

func planKind(plan *corpus.Plan) statusKind {
	switch {
	case len(plan.Accepted) == 0:
		return statusError
	case len(plan.Accepted) < len(plan.Outcomes):
		return statusWarn
	default:
		return statusOK
	}
}

func renderPlanTable(plan *corpus.Plan) string {
	rows := make([][]string, 0, len(plan.Outcomes))
	for _, o := range plan.Outcomes {
		id := "-"
		if o.Status == corpus.StatusAccepted {
			id = strconv.Itoa(o.SequenceID)
		}
		seconds := "-"
		if o.Status != corpus.StatusInvalid && o.Status != corpus.StatusLoadFailed {
			seconds = strconv.FormatFloat(o.TotalSeconds, 'f', 1, 64)
		}
		rows = append(rows, []string{
			o.Name,
			o.Status.String(),
			id,
			strconv.Itoa(o.TrainLines),
			strconv.Itoa(o.ValLines),
			seconds,
			strings.Join(o.Reasons, "; "),
		})
	}
	return renderTable(
		[]string{"Dataset", "Status", "ID", "Train", "Val", "Seconds", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
