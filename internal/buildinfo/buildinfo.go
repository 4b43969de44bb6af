package buildinfo

// Version is the semantic version of appship, set at build time via -ldflags.
var Version = "dev"

// Build is the git commit hash or build identifier, set at build time via -ldflags.
var Build = "unknown"

// UserAgent identifies appship to the remote service.
func UserAgent() string {
	return "appship/" + Version
}
