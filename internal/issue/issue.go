// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	JavaHomeMissingId Id = iota + 1
	ManifestUnreadableId
	ConfigLoadFailedId
	InvalidStepId
	UnsupportedHostId
	ExternalToolFailedId
	DmgbuildMissingId
	InstallerMissingId
	SigningSkippedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	javaHomeMissingIssue = &Issue{
		id: JavaHomeMissingId,
		mdMsg: `
# JAVA_HOME is not set!

pgbuild needs a JDK (14 or newer) to run jmod, jlink and jpackage.

## Things you can try
- Export the variable before running:
~~~
$ export JAVA_HOME=/usr/lib/jvm/jdk-17
~~~
- Or override it for a single run (useful on VMs that ignore the environment):
~~~
$ pgbuild --java_home_o /usr/lib/jvm/jdk-17
~~~
- Or set ` + "`java_home`" + ` in your pgbuild.cue.`,
		extLinks: []HttpLink{"https://docs.oracle.com/en/java/javase/17/jpackage/"},
	}

	manifestUnreadableIssue = &Issue{
		id: ManifestUnreadableId,
		mdMsg: `
# Could not read pom.xml!

The version and dependency versions are taken from the Maven manifest in the
project directory.

## Things you can try
- Run pgbuild from the PolyGlot checkout root, or pass ` + "`-C <dir>`" + `
- Check that pom.xml is well-formed XML and has a top-level <version>`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load pgbuild.cue!

## Things you can try
- Check the CUE syntax near the reported line
- Compare your file with the defaults:
~~~
$ pgbuild config dump
~~~
- Remove the file to fall back to the built-in PolyGlot defaults`,
	}

	invalidStepIssue = &Issue{
		id: InvalidStepId,
		mdMsg: `
# Unknown build step!

Valid steps are **docs**, **build**, **clean**, **image** and **dist**.
Leave ` + "`--step`" + ` out entirely to run all of them in order.

~~~
$ pgbuild --step clean --step image
~~~`,
	}

	unsupportedHostIssue = &Issue{
		id: UnsupportedHostId,
		mdMsg: `
# Host not supported!

jpackage can only build installers for the OS it runs on, and pgbuild knows
how to package for Linux, macOS and Windows only.`,
	}

	externalToolFailedIssue = &Issue{
		id: ExternalToolFailedId,
		mdMsg: `
# An external build tool failed!

Maven, jmod and jlink failures stop the run. The failure sentinel in the copy
destination (if any) is left in place.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see the exact command line
- Re-run a single step, e.g. ` + "`pgbuild --step image`" + `
- Use ` + "`--dry-run`" + ` to print every command without running it`,
	}

	dmgbuildMissingIssue = &Issue{
		id: DmgbuildMissingId,
		mdMsg: `
# dmgbuild was not found in PATH!

The app image was created but no disk image will be produced.

~~~
$ pip install dmgbuild
~~~`,
		extLinks: []HttpLink{"https://dmgbuild.readthedocs.io/"},
	}

	installerMissingIssue = &Issue{
		id: InstallerMissingId,
		mdMsg: `
# The installer was not produced!

jpackage finished but the expected artifact is not in the project directory.
Nothing was copied and the failure sentinel stays in the destination.

## Things you can try
- Check the jpackage output above for errors
- On Linux, make sure dpkg-deb (deb) or rpmbuild (rpm) is installed
- On Windows, make sure the WiX Toolset is installed`,
		extLinks: []HttpLink{"https://wixtoolset.org/releases/"},
	}

	signingSkippedIssue = &Issue{
		id: SigningSkippedId,
		mdMsg: `
# The macOS app image is not signed!

Unsigned builds run locally but cannot be notarized.

~~~
$ pgbuild --mac_sign_identity "Developer ID Application: ..." \
          --mac_distrib_cert "3rd Party Mac Developer Application: ..."
~~~`,
	}

	issues = map[Id]*Issue{
		javaHomeMissingIssue.Id():    javaHomeMissingIssue,
		manifestUnreadableIssue.Id(): manifestUnreadableIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidStepIssue.Id():        invalidStepIssue,
		unsupportedHostIssue.Id():    unsupportedHostIssue,
		externalToolFailedIssue.Id(): externalToolFailedIssue,
		dmgbuildMissingIssue.Id():    dmgbuildMissingIssue,
		installerMissingIssue.Id():   installerMissingIssue,
		signingSkippedIssue.Id():     signingSkippedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
