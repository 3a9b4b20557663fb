package config

// Version is the bookgraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/bookgraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
