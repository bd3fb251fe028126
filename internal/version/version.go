package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/covertmark/covertmark/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/covertmark/covertmark/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/covertmark/covertmark/internal/version.Date={{.Date}}
)
