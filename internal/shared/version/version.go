package version

// Version is overridden at build time with -ldflags "-X phanalist/internal/shared/version.Version=...".
var Version = "dev"
