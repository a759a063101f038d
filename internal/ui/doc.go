// Package ui renders user-facing output: styled notices for interactive
// commands and human-readable command lifecycle events.
package ui
