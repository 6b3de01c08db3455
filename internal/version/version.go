package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/dotbak/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotbak/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotbak/internal/version.Date={{.Date}}
)

// String is the one-line version shown by `dotbak --version`.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
