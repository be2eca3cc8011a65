// Package filesystem routes every file access through a swappable afero
// backend, so tests can run against an in-memory tree instead of the disk.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the backend all packages read and write through.
func API() afero.Afero {
	return backend
}

// SetOsFs points the backend at the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs swaps in a throwaway in-memory tree. Tests call this so
// they never touch the host filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
