// Package prompt collects interactive answers from the user.
//
// LinePrompter reads newline-terminated answers and suits pipes and dumb terminals;
// TerminalPrompter renders bubbletea widgets when a terminal is attached.
package prompt
