// SPDX-License-Identifier: MPL-2.0

package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/clock"
	"github.com/darisadesigns/pgbuild/pkg/platform"

	"github.com/Masterminds/semver/v3"
)

const (
	// BetaSuffix marks a non-release version in the version resource.
	BetaSuffix = "B"

	// windowsBuildBucket groups timestamps so one build number spans 100 seconds.
	windowsBuildBucket = 100
	// windowsBuildModulus keeps the final component inside the installer's
	// 16-bit build field, range [0, 65534].
	windowsBuildModulus = 65535
)

// Resolver computes build numbers for one target OS.
type Resolver struct {
	OS    platform.OS
	Clock clock.Clock
}

// NewResolver returns a resolver for target using the wall clock.
func NewResolver(target platform.OS) Resolver {
	return Resolver{OS: target, Clock: clock.Real{}}
}

// BuildNumber returns the installer build number for version.
//
// Releases use the version unchanged. Windows betas keep at most two
// components and append a 16-bit timestamp bucket; other betas append the
// full epoch seconds.
func (r Resolver) BuildNumber(version string, release bool) string {
	if release {
		return version
	}

	now := clock.OrReal(r.Clock).Now().Unix()

	if r.OS == platform.OSWindows {
		base := version
		if strings.Count(base, ".") > 1 {
			base = base[:strings.LastIndex(base, ".")]
		}
		return base + "." + strconv.FormatInt((now/windowsBuildBucket)%windowsBuildModulus, 10)
	}

	return version + "." + strconv.FormatInt(now, 10)
}

// Resource returns the text written to the version resource file.
func Resource(version string, release bool) string {
	if release {
		return version
	}
	return version + BetaSuffix
}

// Banner returns the headline printed before a build.
func Banner(release bool) string {
	if release {
		return "RELEASE BUILD"
	}
	return "BETA BUILD"
}

// CheckAppVersion reports whether jpackage on target will accept v as
// --app-version. macOS wants one to three numeric components with a
// non-zero major; the other packagers only reject prerelease text.
func CheckAppVersion(target platform.OS, v string) error {
	sv, err := semver.NewVersion(v)
	if err != nil {
		if target != platform.OSMacOS && isDotted(v) {
			return nil
		}
		return fmt.Errorf("app version %q is not numeric: %w", v, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return fmt.Errorf("app version %q carries a qualifier jpackage rejects", v)
	}
	if target == platform.OSMacOS && sv.Major() == 0 {
		return fmt.Errorf("app version %q must start with a non-zero major on macOS", v)
	}
	return nil
}

// isDotted reports whether v is digits separated by single dots.
func isDotted(v string) bool {
	if v == "" {
		return false
	}
	for _, part := range strings.Split(v, ".") {
		if part == "" {
			return false
		}
		if _, err := strconv.ParseUint(part, 10, 64); err != nil {
			return false
		}
	}
	return true
}
