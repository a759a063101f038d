package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

const (
	promptCanceledMessageConstant  = "prompt canceled"
	inputClosedMessageConstant     = "input closed before an answer was given"
	unknownStyleMessageConstant    = "unknown prompt style"
	noOptionsMessageConstant       = "selection requires at least one option"
	unknownStyleErrorTemplate      = "%w: %q"
	defaultIndexOutOfRangeTemplate = "%w: default index %d"
	defaultIndexOutOfRangeMessage  = "selection default out of range"
)

// Style selects a prompter implementation.
type Style string

// Supported prompt styles.
const (
	StyleAuto     Style = "auto"
	StyleTerminal Style = "terminal"
	StyleLine     Style = "line"
)

// ErrPromptCanceled indicates the user dismissed a prompt.
var ErrPromptCanceled = errors.New(promptCanceledMessageConstant)

// ErrInputClosed indicates the input stream ended without an answer.
var ErrInputClosed = errors.New(inputClosedMessageConstant)

// ErrUnknownStyle indicates an unsupported prompt style.
var ErrUnknownStyle = errors.New(unknownStyleMessageConstant)

// ErrNoOptions indicates a selection prompt without choices.
var ErrNoOptions = errors.New(noOptionsMessageConstant)

// ErrDefaultOutOfRange indicates a selection default outside the option list.
var ErrDefaultOutOfRange = errors.New(defaultIndexOutOfRangeMessage)

// InputRequest describes a free-text prompt.
type InputRequest struct {
	Label   string
	Default string
}

// SelectRequest describes a single-choice prompt.
type SelectRequest struct {
	Label        string
	Options      []string
	DefaultIndex int
}

// ConfirmRequest describes a yes/no prompt.
type ConfirmRequest struct {
	Label   string
	Default bool
}

// Prompter asks the user questions.
type Prompter interface {
	Input(request InputRequest) (string, error)
	Select(request SelectRequest) (int, error)
	Confirm(request ConfirmRequest) (bool, error)
}

// ParseStyle converts configuration text into a Style. Empty text selects StyleAuto.
func ParseStyle(value string) (Style, error) {
	normalized := Style(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return StyleAuto, nil
	case StyleAuto, StyleTerminal, StyleLine:
		return normalized, nil
	default:
		return "", fmt.Errorf(unknownStyleErrorTemplate, ErrUnknownStyle, value)
	}
}

type fileDescriptor interface {
	Fd() uintptr
}

// NewPrompter selects a prompter for the style. StyleAuto uses the terminal prompter
// only when both streams are attached to a terminal.
func NewPrompter(style Style, input io.Reader, output io.Writer) (Prompter, error) {
	switch style {
	case StyleLine:
		return NewLinePrompter(input, output), nil
	case StyleTerminal:
		return NewTerminalPrompter(input, output), nil
	case StyleAuto, "":
		if isTerminal(input) && isTerminal(output) {
			return NewTerminalPrompter(input, output), nil
		}
		return NewLinePrompter(input, output), nil
	default:
		return nil, fmt.Errorf(unknownStyleErrorTemplate, ErrUnknownStyle, string(style))
	}
}

func isTerminal(stream any) bool {
	descriptor, ok := stream.(fileDescriptor)
	if !ok {
		return false
	}
	return term.IsTerminal(int(descriptor.Fd()))
}

func validateSelectRequest(request SelectRequest) error {
	if len(request.Options) == 0 {
		return ErrNoOptions
	}
	if request.DefaultIndex < 0 || request.DefaultIndex >= len(request.Options) {
		return fmt.Errorf(defaultIndexOutOfRangeTemplate, ErrDefaultOutOfRange, request.DefaultIndex)
	}
	return nil
}
