package config

// Version is the claimdesk binary version.
// Set at build time via: -ldflags "-X github.com/claimdesk/claimdesk/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
