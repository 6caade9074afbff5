package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/claimdesk/claimdesk/client"
)

func newInitCmd() *cobra.Command {
	var initURL, initToken, profile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save connection settings to ~/.claimdesk/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initToken != ""
			return runInit(initURL, initToken, profile, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "server", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initToken, "with-token", "", "Bearer token (non-interactive mode)")
	cmd.Flags().StringVar(&profile, "name", "default", "Profile name to write")
	return cmd
}

func runInit(url, token, profile string, nonInteractive bool) error {
	if !nonInteractive {
		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		url = strings.TrimSpace(line)

		fmt.Print("Token: ")
		line, _ = reader.ReadString('\n')
		token = strings.TrimSpace(line)
	}

	if url == "" {
		url = defaultURL
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	me, err := testConnection(url, token)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Printf("Connected as %s (%s)\n", me.Email, me.Role)

	cfgPath, err := writeConfig(profile, profileConfig{URL: url, Token: token})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Config saved to %s\n", cfgPath)
	return nil
}

func testConnection(url, token string) (*client.Principal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.New(url, client.WithToken(token)).Me(ctx)
}

// writeConfig upserts one profile and makes it active, keeping the others.
func writeConfig(name string, p profileConfig) (string, error) {
	cfgPath, cfg, err := loadConfig()
	if cfgPath == "" {
		return "", err
	}
	if cfg == nil {
		cfg = &profilesFile{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]profileConfig)
	}
	cfg.Profiles[name] = p
	cfg.ActiveProfile = name

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}
	return cfgPath, nil
}
