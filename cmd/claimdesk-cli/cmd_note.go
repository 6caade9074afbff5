package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read and add claim notes",
	}

	list := &cobra.Command{
		Use:   "list <claim-id>",
		Short: "List notes on a claim",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			notes, err := apiClient.Notes.List(context.Background(), args[0])
			if err != nil {
				fatal("list notes", err)
			}
			output(notes, "")
		},
	}

	var internal bool
	add := &cobra.Command{
		Use:   "add <claim-id> <body>",
		Short: "Add a note to a claim",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			n, err := apiClient.Notes.Create(context.Background(), args[0], &client.CreateNoteRequest{Body: args[1], Internal: internal})
			if err != nil {
				fatal("add note", err)
			}
			output(n, n.ID)
		},
	}
	add.Flags().BoolVar(&internal, "internal", false, "Hide the note from contractors")

	cmd.AddCommand(list, add)
	return cmd
}
