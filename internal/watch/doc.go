// Package watch re-runs a conversion whenever its input files change. It
// watches the parent directories of the inputs with fsnotify, debounces
// bursts of events and reports how each run compares to the previous one.
package watch
