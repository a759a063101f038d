package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	noticeLineTemplateConstant = "%s %s\n"
	headingIconConstant        = "🛠️"
	infoIconConstant           = "🔹"
	successIconConstant        = "✅"
	warningIconConstant        = "⚠️"
	errorIconConstant          = "❌"
	headingColorConstant       = "205"
	successColorConstant       = "2"
	warningColorConstant       = "214"
	errorColorConstant         = "196"
)

// Reporter receives user-facing notices produced by commands.
type Reporter interface {
	Heading(message string)
	Info(message string)
	Success(message string)
	Warning(message string)
	Error(message string)
}

// Notifier writes styled notices to standard output and errors to standard error.
type Notifier struct {
	output       io.Writer
	errorOutput  io.Writer
	headingStyle lipgloss.Style
	infoStyle    lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewNotifier constructs a Notifier. Styles degrade to plain text when the writers are not terminals.
func NewNotifier(output io.Writer, errorOutput io.Writer) *Notifier {
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = output
	}

	outputRenderer := lipgloss.NewRenderer(output)
	errorRenderer := lipgloss.NewRenderer(errorOutput)

	return &Notifier{
		output:       output,
		errorOutput:  errorOutput,
		headingStyle: outputRenderer.NewStyle().Bold(true).Foreground(lipgloss.Color(headingColorConstant)),
		infoStyle:    outputRenderer.NewStyle(),
		successStyle: outputRenderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		warningStyle: outputRenderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		errorStyle:   errorRenderer.NewStyle().Foreground(lipgloss.Color(errorColorConstant)),
	}
}

// Heading prints a section banner.
func (notifier *Notifier) Heading(message string) {
	notifier.write(notifier.output, headingIconConstant, notifier.headingStyle, message)
}

// Info prints a neutral notice.
func (notifier *Notifier) Info(message string) {
	notifier.write(notifier.output, infoIconConstant, notifier.infoStyle, message)
}

// Success prints a completion notice.
func (notifier *Notifier) Success(message string) {
	notifier.write(notifier.output, successIconConstant, notifier.successStyle, message)
}

// Warning prints a non-fatal notice.
func (notifier *Notifier) Warning(message string) {
	notifier.write(notifier.output, warningIconConstant, notifier.warningStyle, message)
}

// Error prints a failure notice to the error output.
func (notifier *Notifier) Error(message string) {
	notifier.write(notifier.errorOutput, errorIconConstant, notifier.errorStyle, message)
}

// Output exposes the writer used for standard notices, for streaming subprocess output.
func (notifier *Notifier) Output() io.Writer {
	return notifier.output
}

// ErrorOutput exposes the writer used for error notices.
func (notifier *Notifier) ErrorOutput() io.Writer {
	return notifier.errorOutput
}

func (notifier *Notifier) write(writer io.Writer, icon string, style lipgloss.Style, message string) {
	_, _ = fmt.Fprintf(writer, noticeLineTemplateConstant, icon, style.Render(message))
}
