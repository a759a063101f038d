package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "info",
			choices:        []string{"info", "debug"},
			description:    "Logging level.",
			expectedOutput: "`<INFO|debug>` Logging level.",
		},
		{
			name:           "default_second_choice",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Log output format.",
			expectedOutput: "`<structured|CONSOLE>` Log output format.",
		},
		{
			name:           "empty_description",
			defaultChoice:  "auto",
			choices:        []string{"auto", "line"},
			expectedOutput: "`<AUTO|line>`",
		},
		{
			name:           "duplicates_and_case_folded",
			defaultChoice:  "Line",
			choices:        []string{"line", "LINE", " terminal "},
			description:    "Prompt style.",
			expectedOutput: "`<LINE|terminal>` Prompt style.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestChoiceValueSet(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidate     string
		expectedValue string
		expectError   bool
	}{
		{name: "exact", candidate: "debug", expectedValue: "debug"},
		{name: "case_insensitive", candidate: " WARN ", expectedValue: "warn"},
		{name: "unsupported", candidate: "verbose", expectedValue: "info", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			value := NewChoiceValue("info", []string{"debug", "info", "warn"})
			setError := value.Set(testCase.candidate)
			if testCase.expectError {
				require.ErrorIs(testInstance, setError, ErrUnsupportedChoice)
				require.ErrorContains(testInstance, setError, "debug, info, warn")
			} else {
				require.NoError(testInstance, setError)
			}
			require.Equal(testInstance, testCase.expectedValue, value.String())
		})
	}
}

func TestChoiceValueWithFlagSet(testInstance *testing.T) {
	value := NewChoiceValue("console", []string{"console", "structured"})
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Var(value, "log-format", value.Usage("Log output format."))

	require.NoError(testInstance, flagSet.Parse([]string{"--log-format", "structured"}))
	require.Equal(testInstance, "structured", value.String())
	require.Equal(testInstance, "choice", value.Type())
	require.Equal(testInstance, []string{"console", "structured"}, value.Choices())
	require.True(testInstance, flagSet.Lookup("log-format").Changed)

	require.Error(testInstance, flagSet.Parse([]string{"--log-format", "xml"}))
}
