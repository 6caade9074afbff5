package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

func newSupplementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "supplement",
		Aliases: []string{"sup"},
		Short:   "Manage supplements on a claim",
	}
	cmd.AddCommand(supplementListCmd())
	cmd.AddCommand(supplementCreateCmd())
	cmd.AddCommand(supplementDecideCmd())
	return cmd
}

func supplementListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <claim-id>",
		Short: "List supplements for a claim",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			sups, err := apiClient.Supplements.List(context.Background(), args[0])
			if err != nil {
				fatal("list supplements", err)
			}
			outputList(sups, []string{"ID", "SEQ", "STATUS", "AMOUNT", "APPROVED"},
				func(ss []client.Supplement) [][]string {
					rows := make([][]string, 0, len(ss))
					for _, s := range ss {
						approved := ""
						if s.ApprovedAmount != nil {
							approved = money(*s.ApprovedAmount)
						}
						rows = append(rows, []string{s.ID, strconv.Itoa(s.Sequence), string(s.Status), money(s.Amount), approved})
					}
					return rows
				},
				func(s client.Supplement) string { return s.ID })
		},
	}
}

func supplementCreateCmd() *cobra.Command {
	var req client.CreateSupplementRequest
	var itemsJSON string
	cmd := &cobra.Command{
		Use:   "create <claim-id>",
		Short: "Add a supplement to a claim",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if itemsJSON != "" {
				if err := json.Unmarshal([]byte(itemsJSON), &req.LineItems); err != nil {
					fatal("parse line items", err)
				}
			}
			s, err := apiClient.Supplements.Create(context.Background(), args[0], &req)
			if err != nil {
				fatal("create supplement", err)
			}
			output(s, s.ID)
		},
	}
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "Requested amount")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&itemsJSON, "items", "", "Line items as a JSON array")
	return cmd
}

func supplementDecideCmd() *cobra.Command {
	var approved float64
	cmd := &cobra.Command{
		Use:     "decide <id> <status>",
		Aliases: []string{"status"},
		Short:   "Record a submission or carrier decision",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateSupplementStatusRequest{Status: client.SupplementStatus(args[1])}
			if cmd.Flags().Changed("approved") {
				if approved < 0 {
					fatal("update supplement", fmt.Errorf("--approved must be non-negative"))
				}
				req.ApprovedAmount = &approved
			}
			s, err := apiClient.Supplements.UpdateStatus(context.Background(), args[0], req)
			if err != nil {
				fatal("update supplement", err)
			}
			output(s, string(s.Status))
		},
	}
	cmd.Flags().Float64Var(&approved, "approved", 0, "Approved amount (required for partial)")
	return cmd
}
