package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks that a config file written by configVersion can be read
// by appVersion. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major and minor versions must match
//   - Patch versions can differ (e.g., 1.2.0 reads files written by 1.2.5)
func CheckConfigCompatibility(appVersion, configVersion string) error {
	appVersion = strings.TrimPrefix(appVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if appVersion == "main" || configVersion == "main" {
		return nil
	}

	app, err := semver.NewVersion(appVersion)
	if err != nil {
		return fmt.Errorf("invalid crossover version '%s': %w", appVersion, err)
	}

	written, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if app.Major() != written.Major() || app.Minor() != written.Minor() {
		return fmt.Errorf("config was written for %d.%d.x but this is crossover %d.%d.x",
			written.Major(), written.Minor(), app.Major(), app.Minor())
	}

	return nil
}
