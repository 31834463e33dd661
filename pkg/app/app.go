// Package app defines common runtime contracts shared by executable
// entrypoints (the sync server and its migration runner).
package app

// Runner represents a runnable application component.
type Runner interface {
	Run() error
}
