// Package ui renders the launcher's console output: the help banner, the
// dot progress indicator, labelled output multiplexing and tables.
package ui
