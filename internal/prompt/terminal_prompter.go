package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	inputHelpConstant         = "enter to submit • esc to cancel"
	selectHelpConstant        = "↑/↓ to move • enter to select • esc to cancel"
	confirmHelpConstant       = "y/n to answer • enter for default • esc to cancel"
	selectCursorConstant      = "> "
	selectPaddingConstant     = "  "
	confirmYesLabelConstant   = "Yes"
	confirmNoLabelConstant    = "No"
	confirmSeparatorConstant  = " / "
	textInputPromptConstant   = "› "
	textInputUnlimitedLength  = 0
	textInputWidthConstant    = 60
	unexpectedModelTemplate   = "unexpected prompt model %T"
	keyUpConstant             = "k"
	keyDownConstant           = "j"
	keyYesConstant            = "y"
	keyNoConstant             = "n"
	labelColorConstant        = "62"
	helpColorConstant         = "240"
	selectedColorConstant     = "205"
	viewLineSeparatorConstant = "\n"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(labelColorConstant))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(helpColorConstant))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(selectedColorConstant))
)

// TerminalPrompter renders prompts as bubbletea programs.
type TerminalPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewTerminalPrompter constructs a prompter bound to the provided streams.
func NewTerminalPrompter(input io.Reader, output io.Writer) *TerminalPrompter {
	return &TerminalPrompter{input: input, output: output}
}

// Input asks for free text. A blank answer yields the default.
func (prompter *TerminalPrompter) Input(request InputRequest) (string, error) {
	finalModel, runError := prompter.run(newInputModel(request))
	if runError != nil {
		return "", runError
	}
	model, ok := finalModel.(inputModel)
	if !ok {
		return "", fmt.Errorf(unexpectedModelTemplate, finalModel)
	}
	return model.result()
}

// Select asks the user to pick one option.
func (prompter *TerminalPrompter) Select(request SelectRequest) (int, error) {
	if validationError := validateSelectRequest(request); validationError != nil {
		return 0, validationError
	}
	finalModel, runError := prompter.run(newSelectModel(request))
	if runError != nil {
		return 0, runError
	}
	model, ok := finalModel.(selectModel)
	if !ok {
		return 0, fmt.Errorf(unexpectedModelTemplate, finalModel)
	}
	return model.result()
}

// Confirm asks a yes/no question.
func (prompter *TerminalPrompter) Confirm(request ConfirmRequest) (bool, error) {
	finalModel, runError := prompter.run(newConfirmModel(request))
	if runError != nil {
		return false, runError
	}
	model, ok := finalModel.(confirmModel)
	if !ok {
		return false, fmt.Errorf(unexpectedModelTemplate, finalModel)
	}
	return model.result()
}

func (prompter *TerminalPrompter) run(model tea.Model) (tea.Model, error) {
	options := []tea.ProgramOption{}
	if prompter.input != nil {
		options = append(options, tea.WithInput(prompter.input))
	}
	if prompter.output != nil {
		options = append(options, tea.WithOutput(prompter.output))
	}
	return tea.NewProgram(model, options...).Run()
}

type inputModel struct {
	label        string
	defaultValue string
	textInput    textinput.Model
	submitted    bool
	canceled     bool
}

func newInputModel(request InputRequest) inputModel {
	textInput := textinput.New()
	textInput.Prompt = textInputPromptConstant
	textInput.Placeholder = request.Default
	textInput.CharLimit = textInputUnlimitedLength
	textInput.Width = textInputWidthConstant
	textInput.Focus()
	return inputModel{label: request.Label, defaultValue: request.Default, textInput: textInput}
}

func (model inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (model inputModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if keyMessage, ok := message.(tea.KeyMsg); ok {
		switch keyMessage.Type {
		case tea.KeyEnter:
			model.submitted = true
			return model, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			model.canceled = true
			return model, tea.Quit
		}
	}
	var command tea.Cmd
	model.textInput, command = model.textInput.Update(message)
	return model, command
}

func (model inputModel) View() string {
	if model.submitted || model.canceled {
		return ""
	}
	return strings.Join([]string{
		labelStyle.Render(model.label),
		model.textInput.View(),
		helpStyle.Render(inputHelpConstant),
	}, viewLineSeparatorConstant) + viewLineSeparatorConstant
}

func (model inputModel) result() (string, error) {
	if !model.submitted {
		return "", ErrPromptCanceled
	}
	value := strings.TrimSpace(model.textInput.Value())
	if len(value) == 0 {
		return model.defaultValue, nil
	}
	return value, nil
}

type selectModel struct {
	label     string
	options   []string
	cursor    int
	submitted bool
	canceled  bool
}

func newSelectModel(request SelectRequest) selectModel {
	return selectModel{label: request.Label, options: request.Options, cursor: request.DefaultIndex}
}

func (model selectModel) Init() tea.Cmd {
	return nil
}

func (model selectModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		return model, nil
	}
	switch keyMessage.Type {
	case tea.KeyEnter:
		model.submitted = true
		return model, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		model.canceled = true
		return model, tea.Quit
	case tea.KeyUp:
		model.moveCursor(-1)
	case tea.KeyDown:
		model.moveCursor(1)
	case tea.KeyRunes:
		switch keyMessage.String() {
		case keyUpConstant:
			model.moveCursor(-1)
		case keyDownConstant:
			model.moveCursor(1)
		}
	}
	return model, nil
}

func (model *selectModel) moveCursor(delta int) {
	optionCount := len(model.options)
	model.cursor = (model.cursor + delta + optionCount) % optionCount
}

func (model selectModel) View() string {
	if model.submitted || model.canceled {
		return ""
	}
	lines := []string{labelStyle.Render(model.label)}
	for optionIndex, option := range model.options {
		if optionIndex == model.cursor {
			lines = append(lines, selectedStyle.Render(selectCursorConstant+option))
			continue
		}
		lines = append(lines, selectPaddingConstant+option)
	}
	lines = append(lines, helpStyle.Render(selectHelpConstant))
	return strings.Join(lines, viewLineSeparatorConstant) + viewLineSeparatorConstant
}

func (model selectModel) result() (int, error) {
	if !model.submitted {
		return 0, ErrPromptCanceled
	}
	return model.cursor, nil
}

type confirmModel struct {
	label     string
	value     bool
	submitted bool
	canceled  bool
}

func newConfirmModel(request ConfirmRequest) confirmModel {
	return confirmModel{label: request.Label, value: request.Default}
}

func (model confirmModel) Init() tea.Cmd {
	return nil
}

func (model confirmModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		return model, nil
	}
	switch keyMessage.Type {
	case tea.KeyEnter:
		model.submitted = true
		return model, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		model.canceled = true
		return model, tea.Quit
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		model.value = !model.value
	case tea.KeyRunes:
		switch strings.ToLower(keyMessage.String()) {
		case keyYesConstant:
			model.value = true
			model.submitted = true
			return model, tea.Quit
		case keyNoConstant:
			model.value = false
			model.submitted = true
			return model, tea.Quit
		}
	}
	return model, nil
}

func (model confirmModel) View() string {
	if model.submitted || model.canceled {
		return ""
	}
	yesLabel := confirmYesLabelConstant
	noLabel := confirmNoLabelConstant
	if model.value {
		yesLabel = selectedStyle.Render(yesLabel)
	} else {
		noLabel = selectedStyle.Render(noLabel)
	}
	return strings.Join([]string{
		labelStyle.Render(model.label),
		yesLabel + confirmSeparatorConstant + noLabel,
		helpStyle.Render(confirmHelpConstant),
	}, viewLineSeparatorConstant) + viewLineSeparatorConstant
}

func (model confirmModel) result() (bool, error) {
	if !model.submitted {
		return false, ErrPromptCanceled
	}
	return model.value, nil
}
