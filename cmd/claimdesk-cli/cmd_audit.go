package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

var auditHeaders = []string{"ID", "WHEN", "USER", "ACTION", "ENTITY", "FIELD", "OLD", "NEW"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func auditRows(entries []client.AuditEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		who := e.UserEmail
		if who == "" {
			who = e.UserID
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format(time.DateTime),
			who,
			e.Action,
			e.EntityType + "/" + e.EntityID,
			deref(e.FieldName),
			deref(e.OldValue),
			deref(e.NewValue),
		})
	}
	return rows
}

func newAuditCmd() *cobra.Command {
	var opts client.AuditQueryOptions
	var from, to string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit log",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var err error
			if opts.From, err = parseDateFlag(from); err != nil {
				fatal("parse --from", err)
			}
			if opts.To, err = parseUntilFlag(to); err != nil {
				fatal("parse --to", err)
			}
			page, err := apiClient.Audit.Query(context.Background(), &opts)
			if err != nil {
				fatal("query audit log", err)
			}
			if flagFmt == "table" {
				formatTable(auditHeaders, auditRows(page.Rows))
				return
			}
			output(page, strconv.Itoa(page.Total))
		},
	}
	cmd.Flags().StringVar(&opts.UserID, "user", "", "Filter by user ID")
	cmd.Flags().StringVar(&opts.Action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&opts.EntityType, "entity-type", "", "Filter by entity type")
	cmd.Flags().StringVar(&opts.EntityID, "entity", "", "Filter by entity ID")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "End date, inclusive for YYYY-MM-DD, exclusive for RFC3339")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Rows per page")
	return cmd
}

// parseDateFlag accepts RFC3339 or a bare date. Empty input yields nil.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // unset flag
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseUntilFlag is parseDateFlag for an exclusive upper bound: a bare date
// resolves to the following midnight so the whole day is included.
func parseUntilFlag(s string) (*time.Time, error) {
	t, err := parseDateFlag(s)
	if err != nil || t == nil {
		return t, err
	}
	if _, dateErr := time.Parse(time.DateOnly, s); dateErr == nil {
		next := t.AddDate(0, 0, 1)
		return &next, nil
	}
	return t, nil
}
