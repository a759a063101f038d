package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	inputWithDefaultTemplate  = "%s (%s): "
	inputTemplate             = "%s: "
	selectHeaderTemplate      = "%s\n"
	selectOptionTemplate      = "  %d) %s\n"
	selectDefaultOptionSuffix = " (default)"
	selectAnswerPrompt        = "Choose [1-%d]: "
	selectInvalidTemplate     = "Please choose a number between 1 and %d.\n"
	confirmDefaultYesHint     = "Y/n"
	confirmDefaultNoHint      = "y/N"
	confirmTemplate           = "%s (%s): "
	affirmativeShortConstant  = "y"
	affirmativeLongConstant   = "yes"
	negativeShortConstant     = "n"
	negativeLongConstant      = "no"
	lineDelimiterConstant     = '\n'
)

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLinePrompter constructs a prompter from the provided reader and writer.
func NewLinePrompter(input io.Reader, output io.Writer) *LinePrompter {
	if output == nil {
		output = io.Discard
	}
	return &LinePrompter{reader: bufio.NewReader(input), writer: output}
}

// Input asks for free text. A blank answer yields the default.
func (prompter *LinePrompter) Input(request InputRequest) (string, error) {
	if len(request.Default) > 0 {
		prompter.printf(inputWithDefaultTemplate, request.Label, request.Default)
	} else {
		prompter.printf(inputTemplate, request.Label)
	}

	answer, readError := prompter.readLine()
	if readError != nil {
		return "", readError
	}
	if len(answer) == 0 {
		return request.Default, nil
	}
	return answer, nil
}

// Select asks the user to pick one option by number or by name.
func (prompter *LinePrompter) Select(request SelectRequest) (int, error) {
	if validationError := validateSelectRequest(request); validationError != nil {
		return 0, validationError
	}

	prompter.printf(selectHeaderTemplate, request.Label)
	for optionIndex, option := range request.Options {
		label := option
		if optionIndex == request.DefaultIndex {
			label += selectDefaultOptionSuffix
		}
		prompter.printf(selectOptionTemplate, optionIndex+1, label)
	}

	for {
		prompter.printf(selectAnswerPrompt, len(request.Options))
		answer, readError := prompter.readLine()
		if readError != nil {
			return 0, readError
		}
		if len(answer) == 0 {
			return request.DefaultIndex, nil
		}
		if selectedIndex, matched := matchOption(answer, request.Options); matched {
			return selectedIndex, nil
		}
		prompter.printf(selectInvalidTemplate, len(request.Options))
	}
}

// Confirm asks a yes/no question. Anything other than an explicit answer yields the default.
func (prompter *LinePrompter) Confirm(request ConfirmRequest) (bool, error) {
	hint := confirmDefaultNoHint
	if request.Default {
		hint = confirmDefaultYesHint
	}
	prompter.printf(confirmTemplate, request.Label, hint)

	answer, readError := prompter.readLine()
	if readError != nil {
		if errors.Is(readError, ErrInputClosed) {
			return request.Default, nil
		}
		return false, readError
	}

	switch strings.ToLower(answer) {
	case affirmativeShortConstant, affirmativeLongConstant:
		return true, nil
	case negativeShortConstant, negativeLongConstant:
		return false, nil
	default:
		return request.Default, nil
	}
}

func (prompter *LinePrompter) readLine() (string, error) {
	line, readError := prompter.reader.ReadString(lineDelimiterConstant)
	if readError != nil {
		if errors.Is(readError, io.EOF) {
			if len(line) == 0 {
				return "", ErrInputClosed
			}
			return strings.TrimSpace(line), nil
		}
		return "", readError
	}
	return strings.TrimSpace(line), nil
}

func (prompter *LinePrompter) printf(template string, arguments ...any) {
	_, _ = fmt.Fprintf(prompter.writer, template, arguments...)
}

func matchOption(answer string, options []string) (int, bool) {
	if number, parseError := strconv.Atoi(answer); parseError == nil {
		if number >= 1 && number <= len(options) {
			return number - 1, true
		}
		return 0, false
	}
	for optionIndex, option := range options {
		if strings.EqualFold(option, answer) {
			return optionIndex, true
		}
	}
	return 0, false
}
