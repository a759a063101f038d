package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitman/internal/prompt"
)

func TestParseStyle(testInstance *testing.T) {
	testCases := []struct {
		name          string
		value         string
		expected      prompt.Style
		expectedError bool
	}{
		{name: "empty", value: "", expected: prompt.StyleAuto},
		{name: "auto", value: "auto", expected: prompt.StyleAuto},
		{name: "terminal_mixed_case", value: " Terminal ", expected: prompt.StyleTerminal},
		{name: "line", value: "line", expected: prompt.StyleLine},
		{name: "unknown", value: "gui", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			style, parseError := prompt.ParseStyle(testCase.value)
			if testCase.expectedError {
				require.ErrorIs(testInstance, parseError, prompt.ErrUnknownStyle)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, style)
		})
	}
}

func TestNewPrompterSelectsImplementation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		style         prompt.Style
		expectedType  prompt.Prompter
		expectedError bool
	}{
		{name: "auto_without_terminal", style: prompt.StyleAuto, expectedType: &prompt.LinePrompter{}},
		{name: "line", style: prompt.StyleLine, expectedType: &prompt.LinePrompter{}},
		{name: "terminal", style: prompt.StyleTerminal, expectedType: &prompt.TerminalPrompter{}},
		{name: "unknown", style: prompt.Style("gui"), expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			prompter, creationError := prompt.NewPrompter(testCase.style, strings.NewReader(""), &bytes.Buffer{})
			if testCase.expectedError {
				require.ErrorIs(testInstance, creationError, prompt.ErrUnknownStyle)
				require.Nil(testInstance, prompter)
				return
			}
			require.NoError(testInstance, creationError)
			require.IsType(testInstance, testCase.expectedType, prompter)
		})
	}
}
