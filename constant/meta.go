// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Soi is the canonical application identifier used for filesystem paths and CLI branding.
	Soi = "soi"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// CompilationArtist is the sentinel album-artist value marking multi-artist albums.
	CompilationArtist = "Various Artists"
)
