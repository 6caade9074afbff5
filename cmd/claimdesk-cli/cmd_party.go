package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

func newPartyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Manage carriers, contractors, estimators and adjusters",
	}
	cmd.AddCommand(partyListCmd())
	cmd.AddCommand(partyCreateCmd())
	cmd.AddCommand(partyDeactivateCmd())
	return cmd
}

func partyListCmd() *cobra.Command {
	var opts client.PartyListOptions
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parties",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts.Kind = client.PartyKind(kind)
			parties, err := apiClient.Parties.List(context.Background(), &opts)
			if err != nil {
				fatal("list parties", err)
			}
			outputList(parties, []string{"ID", "KIND", "NAME", "EMAIL"},
				func(ps []client.Party) [][]string {
					rows := make([][]string, 0, len(ps))
					for _, p := range ps {
						rows = append(rows, []string{p.ID, string(p.Kind), p.Name, p.Email})
					}
					return rows
				},
				func(p client.Party) string { return p.ID })
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "carrier|contractor|estimator|adjuster")
	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "Only active parties")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Offset")
	return cmd
}

func partyCreateCmd() *cobra.Command {
	var req client.CreatePartyRequest
	var rate float64
	cmd := &cobra.Command{
		Use:   "create <kind> <name>",
		Short: "Add a party",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req.Kind = client.PartyKind(args[0])
			req.Name = args[1]
			if cmd.Flags().Changed("commission-rate") {
				req.CommissionRate = &rate
			}
			p, err := apiClient.Parties.Create(context.Background(), &req)
			if err != nil {
				fatal("create party", err)
			}
			output(p, p.ID)
		},
	}
	cmd.Flags().StringVar(&req.Company, "company", "", "Company")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone")
	cmd.Flags().Float64Var(&rate, "commission-rate", 0, "Estimator commission rate (0-1)")
	return cmd
}

func partyDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Mark a party inactive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inactive := false
			p, err := apiClient.Parties.Update(context.Background(), args[0], &client.UpdatePartyRequest{Active: &inactive})
			if err != nil {
				fatal("deactivate party", err)
			}
			output(p, p.ID)
		},
	}
}
