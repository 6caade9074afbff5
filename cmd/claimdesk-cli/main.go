// Command claimdesk-cli is a terminal client for the claimdesk API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/claimdesk/claimdesk/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient   *client.Client
	flagURL     string
	flagToken   string
	flagFmt     string
	flagProfile string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("claimdesk-cli version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("claimdesk-cli version %s-dev", version)
}

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// profilesFile is the ~/.claimdesk/config.yaml layout.
type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "claimdesk-cli",
		Short:   "Track insurance claim supplements from the terminal",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL, client.WithToken(flagToken))
		},
		SilenceUsage: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "claimdesk server URL (env: CLAIMDESK_URL)")
	root.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token (env: CLAIMDESK_TOKEN)")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config profile to use (default: active_profile)")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // no client

	root.AddCommand(initCmd)
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newClaimCmd())
	root.AddCommand(newSupplementCmd())
	root.AddCommand(newNoteCmd())
	root.AddCommand(newPartyCmd())
	root.AddCommand(newAuditCmd())
	root.AddCommand(newReportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claimdesk", "config.yaml"), nil
}

func loadConfig() (string, *profilesFile, error) {
	path, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, nil, err
	}
	var cfg profilesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return path, nil, err
	}
	return path, &cfg, nil
}

// selectedProfile returns the profile named by --profile, else the active one.
func (f *profilesFile) selectedProfile() (profileConfig, bool) {
	name := flagProfile
	if name == "" {
		name = f.ActiveProfile
	}
	if name == "" {
		name = "default"
	}
	p, ok := f.Profiles[name]
	return p, ok
}

// resolveConfig fills flagURL and flagToken. Flags win, then env, then the
// config file.
func resolveConfig() {
	if flagURL == defaultURL {
		if v := os.Getenv("CLAIMDESK_URL"); v != "" {
			flagURL = v
		}
	}
	if flagToken == "" {
		flagToken = os.Getenv("CLAIMDESK_TOKEN")
	}

	_, cfg, err := loadConfig()
	if err != nil {
		return
	}
	p, ok := cfg.selectedProfile()
	if !ok {
		return
	}
	if flagURL == defaultURL && p.URL != "" {
		flagURL = p.URL
	}
	if flagToken == "" && p.Token != "" {
		flagToken = p.Token
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
