package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

func newReportCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Commission and billing reports",
	}
	cmd.PersistentFlags().StringVar(&from, "from", "", "Window start (default: first of this month)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "Window end, exclusive (default: now)")

	window := func() (time.Time, time.Time) {
		start, end, err := reportWindow(from, to, time.Now())
		if err != nil {
			fatal("parse window", err)
		}
		return start, end
	}

	commissions := &cobra.Command{
		Use:   "commissions",
		Short: "Commission owed per estimator",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			start, end := window()
			rows, err := apiClient.Reports.Commissions(context.Background(), start, end)
			if err != nil {
				fatal("commission report", err)
			}
			outputList(rows, []string{"ESTIMATOR", "CLAIMS", "INCREASE", "RATE", "COMMISSION"},
				func(rs []client.CommissionRow) [][]string {
					out := make([][]string, 0, len(rs))
					for _, r := range rs {
						out = append(out, []string{r.EstimatorName, strconv.Itoa(r.ClaimCount), money(r.TotalIncrease), fmt.Sprintf("%.3f", r.CommissionRate), money(r.Commission)})
					}
					return out
				},
				func(r client.CommissionRow) string { return r.EstimatorID })
		},
	}

	billing := &cobra.Command{
		Use:   "billing",
		Short: "Amount billed per contractor",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			start, end := window()
			rows, err := apiClient.Reports.Billing(context.Background(), start, end)
			if err != nil {
				fatal("billing report", err)
			}
			outputList(rows, []string{"CONTRACTOR", "CLAIMS", "INCREASE", "RATE", "BILLED"},
				func(rs []client.BillingRow) [][]string {
					out := make([][]string, 0, len(rs))
					for _, r := range rs {
						out = append(out, []string{r.ContractorName, strconv.Itoa(r.ClaimCount), money(r.TotalIncrease), fmt.Sprintf("%.3f", r.Rate), money(r.BilledAmount)})
					}
					return out
				},
				func(r client.BillingRow) string { return r.ContractorID })
		},
	}

	cmd.AddCommand(commissions, billing)
	return cmd
}

// reportWindow resolves the --from/--to flags, defaulting to month-to-date.
func reportWindow(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now
	if t, err := parseDateFlag(from); err != nil {
		return start, end, err
	} else if t != nil {
		start = *t
	}
	if t, err := parseDateFlag(to); err != nil {
		return start, end, err
	} else if t != nil {
		end = *t
	}
	if !end.After(start) {
		return start, end, fmt.Errorf("--to must be after --from")
	}
	return start, end, nil
}
