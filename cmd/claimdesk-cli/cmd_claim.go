package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

var claimHeaders = []string{"ID", "CLAIM", "POLICYHOLDER", "STATUS", "RCV"}

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Manage claims",
	}
	cmd.AddCommand(claimListCmd())
	cmd.AddCommand(claimGetCmd())
	cmd.AddCommand(claimCreateCmd())
	cmd.AddCommand(claimUpdateCmd())
	cmd.AddCommand(claimTransitionCmd())
	cmd.AddCommand(claimTransitionsCmd())
	cmd.AddCommand(claimHistoryCmd())
	return cmd
}

func claimListCmd() *cobra.Command {
	var opts client.ClaimListOptions
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List claims",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if opts.Limit < 0 || opts.Offset < 0 {
				fmt.Fprintln(os.Stderr, "Error: --limit and --offset must be non-negative")
				os.Exit(1)
			}
			opts.Status = client.ClaimStatus(status)
			claims, more, err := apiClient.Claims.List(context.Background(), &opts)
			if err != nil {
				fatal("list claims", err)
			}
			outputList(claims, claimHeaders, claimRows, func(c client.Claim) string { return c.ID })
			if more && flagFmt == "table" {
				fmt.Fprintln(os.Stderr, "(more results: raise --offset)")
			}
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.ContractorID, "contractor", "", "Filter by contractor ID")
	cmd.Flags().StringVar(&opts.EstimatorID, "estimator", "", "Filter by estimator ID")
	cmd.Flags().StringVar(&opts.CarrierID, "carrier", "", "Filter by carrier ID")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search claim number or policyholder")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Offset")
	return cmd
}

func claimGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a claim by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c, err := apiClient.Claims.Get(context.Background(), args[0])
			if err != nil {
				fatal("get claim", err)
			}
			output(c, c.ID)
		},
	}
}

func claimCreateCmd() *cobra.Command {
	var req client.CreateClaimRequest
	var contractorID, estimatorID, carrierID string
	cmd := &cobra.Command{
		Use:   "create <claim-number> <policyholder>",
		Short: "Open a claim",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req.ClaimNumber = args[0]
			req.PolicyholderName = args[1]
			req.ContractorID = optional(contractorID)
			req.EstimatorID = optional(estimatorID)
			req.CarrierID = optional(carrierID)
			c, err := apiClient.Claims.Create(context.Background(), &req)
			if err != nil {
				fatal("create claim", err)
			}
			output(c, c.ID)
		},
	}
	cmd.Flags().StringVar(&req.PolicyNumber, "policy", "", "Policy number")
	cmd.Flags().StringVar(&req.PolicyholderEmail, "email", "", "Policyholder email")
	cmd.Flags().StringVar(&req.JobType, "job-type", "", "Job type (default roofing)")
	cmd.Flags().Float64Var(&req.InitialRCV, "rcv", 0, "Initial replacement cost value")
	cmd.Flags().Float64Var(&req.TotalSquares, "squares", 0, "Total roofing squares")
	cmd.Flags().StringVar(&contractorID, "contractor", "", "Contractor ID")
	cmd.Flags().StringVar(&estimatorID, "estimator", "", "Estimator ID")
	cmd.Flags().StringVar(&carrierID, "carrier", "", "Carrier ID")
	return cmd
}

func claimUpdateCmd() *cobra.Command {
	var fieldsJSON string
	var rcv, squares float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change claim fields",
		Long:  "Change claim fields. Flags are applied on top of --fields, a JSON object of claim fields.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var req client.UpdateClaimRequest
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &req); err != nil {
					fatal("parse fields", err)
				}
			}
			if cmd.Flags().Changed("rcv") {
				req.CurrentTotalRCV = &rcv
			}
			if cmd.Flags().Changed("squares") {
				req.TotalSquares = &squares
			}
			c, err := apiClient.Claims.Update(context.Background(), args[0], &req)
			if err != nil {
				fatal("update claim", err)
			}
			output(c, c.ID)
		},
	}
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", `Fields as JSON, e.g. '{"policyholder_phone":"555-0100"}'`)
	cmd.Flags().Float64Var(&rcv, "rcv", 0, "Current total replacement cost value")
	cmd.Flags().Float64Var(&squares, "squares", 0, "Total roofing squares")
	return cmd
}

func claimTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "transition <id> <status>",
		Aliases: []string{"status"},
		Short: "Move a claim to a new status",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			c, err := apiClient.Claims.Transition(context.Background(), args[0], client.ClaimStatus(args[1]))
			if client.IsInvalidTransition(err) {
				fmt.Fprintf(os.Stderr, "Error: %v\nRun: claimdesk-cli claim transitions %s\n", err, args[0])
				os.Exit(1)
			}
			if err != nil {
				fatal("update status", err)
			}
			output(c, string(c.Status))
		},
	}
}

func claimTransitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions <id>",
		Short: "List the statuses a claim can move to",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			next, err := apiClient.Claims.Transitions(context.Background(), args[0])
			if err != nil {
				fatal("list transitions", err)
			}
			outputList(next, []string{"STATUS", "LABEL"},
				func(ts []client.Transition) [][]string {
					rows := make([][]string, 0, len(ts))
					for _, t := range ts {
						rows = append(rows, []string{string(t.Status), t.Label})
					}
					return rows
				},
				func(t client.Transition) string { return string(t.Status) })
		},
	}
}

func claimHistoryCmd() *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit trail for a claim",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p, err := apiClient.Claims.History(context.Background(), args[0], page, limit)
			if err != nil {
				fatal("get history", err)
			}
			if flagFmt == "table" {
				formatTable(auditHeaders, auditRows(p.Rows))
				return
			}
			output(p, "")
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 50, "Rows per page")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
