// SPDX-License-Identifier: MPL-2.0

package packager

import "github.com/darisadesigns/pgbuild/internal/runtime"

// Codesign is the macOS signing tool.
const Codesign = "codesign"

// SigningPlan lists which identities sign the app image and the disk image.
type SigningPlan struct {
	// App holds the identities applied to the app image, in order.
	App []string
	// DMG is the identity applied to the disk image, or "".
	DMG string
	// Warnings explain each signature that will not be made.
	Warnings []string
}

// PlanSigning decides the signing steps. The developer identity is used only
// when no distribution identity is given; otherwise the distribution identity
// signs both the app image and the disk image.
func PlanSigning(developer, distribution string) SigningPlan {
	var plan SigningPlan

	switch {
	case distribution != "":
		plan.App = []string{distribution}
		plan.DMG = distribution
	case developer != "":
		plan.App = []string{developer}
	default:
		plan.Warnings = append(plan.Warnings, "No code signing identity specified, app image will not be signed as developer")
	}

	if distribution == "" {
		plan.Warnings = append(plan.Warnings,
			"No distribution signing identity specified, app image will not be signed for distribution",
			"No distribution signing identity specified, dmg installer will not be signed for distribution",
		)
	}
	return plan
}

// Unsigned reports whether nothing will be signed at all.
func (p SigningPlan) Unsigned() bool {
	return len(p.App) == 0 && p.DMG == ""
}

// CodesignApp signs an app bundle with the hardened runtime enabled.
func CodesignApp(entitlements, identity, app string) runtime.Command {
	return runtime.NewCommand(Codesign,
		"--force",
		"--timestamp",
		"--options", "runtime",
		"--entitlements", entitlements,
		"--sign", identity,
		app,
	)
}

// CodesignDMG signs a disk image. Disk images carry no hardened runtime flag.
func CodesignDMG(entitlements, identity, dmg string) runtime.Command {
	return runtime.NewCommand(Codesign,
		"--timestamp",
		"--entitlements", entitlements,
		"--sign", identity,
		dmg,
	)
}
