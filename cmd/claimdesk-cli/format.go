package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/claimdesk/claimdesk/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func claimRows(claims []client.Claim) [][]string {
	rows := make([][]string, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, []string{c.ID, c.ClaimNumber, c.PolicyholderName, string(c.Status), money(c.CurrentTotalRCV)})
	}
	return rows
}

// output prints v in the selected format. quietVal is printed alone in quiet
// mode; table mode falls back to JSON unless the caller renders rows itself.
func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		fmt.Println(quietVal)
	default:
		formatJSON(v)
	}
}

// outputList prints a list, rendering rows when --format=table.
func outputList[T any](items []T, headers []string, rows func([]T) [][]string, id func(T) string) {
	switch flagFmt {
	case "table":
		formatTable(headers, rows(items))
	case "quiet":
		for _, it := range items {
			fmt.Println(id(it))
		}
	default:
		formatJSON(items)
	}
}
