// SPDX-License-Identifier: MPL-2.0

// Package config resolves everything a packaging run needs to know.
//
// Two layers exist. Config is the project configuration: product metadata,
// project-relative paths and per-OS packaging settings, loaded with Viper from
// an optional pgbuild.cue file that is validated against the embedded CUE
// schema (config_schema.cue) and merged over the PolyGlot defaults. Options is
// the immutable record of a single invocation (selected steps, release flag,
// copy destination, Java home, signing identities) built once by the CLI and
// passed by value to every step.
package config
