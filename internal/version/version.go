package version

// Version is the current version of argo-crossover.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-crossover/internal/version.Version=1.2.3"
var Version = "main"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
