package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdesk/claimdesk/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, connectivity and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(apiClient)
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(c *client.Client) error {
	results := doctorChecks(c)

	failed := false
	for _, r := range results {
		mark := "ok  "
		if !r.Passed {
			mark = "FAIL"
			failed = true
		}
		if r.Detail != "" {
			fmt.Printf("[%s] %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("[%s] %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("       %s\n", r.Hint)
		}
	}

	if failed {
		return errors.New("doctor found issues")
	}
	fmt.Println("All checks passed.")
	return nil
}

func doctorChecks(c *client.Client) []checkResult {
	var results []checkResult

	cfgPath, _, cfgErr := loadConfig()
	results = append(results, checkResult{
		Name: "Config file", Passed: cfgErr == nil, Detail: cfgPath,
		Hint: "Run: claimdesk-cli init",
	})
	results = append(results, checkResult{Name: "Server URL", Passed: flagURL != "", Detail: flagURL})
	results = append(results, checkResult{
		Name: "Token", Passed: flagToken != "",
		Hint: "Set --token, CLAIMDESK_TOKEN, or run claimdesk-cli init",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health, err := c.Health(ctx)
	if err != nil {
		return append(results, checkResult{Name: "Server reachable", Hint: err.Error()})
	}
	results = append(results, checkResult{Name: "Server reachable", Passed: true, Detail: "v" + health.Version})

	ready, err := c.Ready(ctx)
	if err != nil {
		results = append(results, checkResult{Name: "Schema", Hint: err.Error()})
	} else {
		results = append(results, checkResult{Name: "Schema", Passed: true, Detail: fmt.Sprintf("version %d", ready.SchemaVersion)})
	}

	if flagToken == "" {
		return results
	}
	me, err := c.Me(ctx)
	if err != nil {
		return append(results, checkResult{Name: "Authentication", Hint: err.Error()})
	}
	return append(results, checkResult{Name: "Authentication", Passed: true, Detail: fmt.Sprintf("%s (%s)", me.Email, me.Role)})
}
