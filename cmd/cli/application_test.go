package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitman/cmd/cli"
	"github.com/temirov/gitman/internal/browser"
	"github.com/temirov/gitman/internal/dispatch"
	"github.com/temirov/gitman/internal/execshell"
	"github.com/temirov/gitman/internal/prompt"
)

const (
	testHomeDirectoryConstant        = "/home/tester"
	testRepositoryPathConstant       = "/work/widget"
	testStoredConfigurationConstant  = "{\n  \"baseBranch\": \"main\",\n  \"gitProvider\": \"github\"\n}"
	testRemoteURLConstant            = "git@github.com:acme/widget.git\n"
	testExpectedPullRequestURL       = "https://github.com/acme/widget/compare/main...feature-x?expand=1"
	testInsideWorkTreeCommandKey     = "git rev-parse --is-inside-work-tree"
	testCurrentBranchCommandKey      = "git rev-parse --abbrev-ref HEAD"
	testRemoteURLCommandKey          = "git remote get-url origin"
	testStatusCommandKey             = "git status --porcelain"
	testNoOperationMessageConstant   = "No valid operation specified. Use --help for usage."
	testConfigurationResetConstant   = "Configuration reset."
	testApplicationConfigFileName    = "config.yaml"
	testApplicationConfigFileContent = "common:\n  log_level: verbose\n"
)

type recordingCommandRunner struct {
	responses        map[string]execshell.ExecutionResult
	startFailures    map[execshell.CommandName]error
	recordedCommands []execshell.ShellCommand
}

func newRecordingCommandRunner(responses map[string]execshell.ExecutionResult) *recordingCommandRunner {
	return &recordingCommandRunner{responses: responses}
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	if startFailure, failing := runner.startFailures[command.Name]; failing {
		return execshell.ExecutionResult{}, startFailure
	}
	commandKey := strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), " ")
	if response, exists := runner.responses[commandKey]; exists {
		return response, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (runner *recordingCommandRunner) commandLines() []string {
	commandLines := make([]string, 0, len(runner.recordedCommands))
	for _, command := range runner.recordedCommands {
		commandLines = append(commandLines, strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), " "))
	}
	return commandLines
}

type scriptedPrompter struct {
	inputs      []string
	selections  []int
	confirms    []bool
	inputLabels []string
}

func (prompter *scriptedPrompter) Input(request prompt.InputRequest) (string, error) {
	prompter.inputLabels = append(prompter.inputLabels, request.Label)
	if len(prompter.inputs) == 0 {
		return "", prompt.ErrInputClosed
	}
	answer := prompter.inputs[0]
	prompter.inputs = prompter.inputs[1:]
	return answer, nil
}

func (prompter *scriptedPrompter) Select(prompt.SelectRequest) (int, error) {
	if len(prompter.selections) == 0 {
		return 0, prompt.ErrInputClosed
	}
	answer := prompter.selections[0]
	prompter.selections = prompter.selections[1:]
	return answer, nil
}

func (prompter *scriptedPrompter) Confirm(request prompt.ConfirmRequest) (bool, error) {
	if len(prompter.confirms) == 0 {
		return request.Default, nil
	}
	answer := prompter.confirms[0]
	prompter.confirms = prompter.confirms[1:]
	return answer, nil
}

type applicationHarness struct {
	application *cli.Application
	runner      *recordingCommandRunner
	fileSystem  afero.Fs
	prompter    *scriptedPrompter
	output      *bytes.Buffer
	errorOutput *bytes.Buffer
	clipboard   []string
}

func newApplicationHarness(testInstance *testing.T, responses map[string]execshell.ExecutionResult, storedConfiguration string) *applicationHarness {
	testInstance.Helper()

	harness := &applicationHarness{
		runner:      newRecordingCommandRunner(responses),
		fileSystem:  afero.NewMemMapFs(),
		prompter:    &scriptedPrompter{},
		output:      &bytes.Buffer{},
		errorOutput: &bytes.Buffer{},
	}
	if len(storedConfiguration) > 0 {
		storePath := filepath.Join(testHomeDirectoryConstant, ".git-toolbelt-config.json")
		require.NoError(testInstance, afero.WriteFile(harness.fileSystem, storePath, []byte(storedConfiguration), 0o644))
	}

	harness.application = cli.NewApplication(
		cli.WithCommandRunner(harness.runner),
		cli.WithFileSystem(harness.fileSystem),
		cli.WithHomeDirectoryProvider(func() (string, error) { return testHomeDirectoryConstant, nil }),
		cli.WithPrompter(harness.prompter),
		cli.WithClipboard(func(text string) error {
			harness.clipboard = append(harness.clipboard, text)
			return nil
		}),
		cli.WithWorkingDirectory(testRepositoryPathConstant),
		cli.WithConfigurationSearchPaths(testInstance.TempDir()),
	)
	rootCommand := harness.application.Command()
	rootCommand.SetOut(harness.output)
	rootCommand.SetErr(harness.errorOutput)
	rootCommand.SetIn(strings.NewReader(""))
	return harness
}

func (harness *applicationHarness) execute(arguments ...string) error {
	harness.application.Command().SetArgs(arguments)
	return harness.application.Execute()
}

func insideRepositoryResponses() map[string]execshell.ExecutionResult {
	return map[string]execshell.ExecutionResult{
		testInsideWorkTreeCommandKey: {StandardOutput: "true\n"},
		testCurrentBranchCommandKey:  {StandardOutput: "feature-x\n"},
		testRemoteURLCommandKey:      {StandardOutput: testRemoteURLConstant},
		testStatusCommandKey:         {StandardOutput: " M main.go\n"},
	}
}

func TestApplicationHelpListsToolbeltFlags(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, insideRepositoryResponses(), "")
	require.NoError(testInstance, harness.execute("--help"))

	helpOutput := harness.output.String()
	for _, expectedFragment := range []string{"--squash", "--force-push", "--create-pr target", "--reset", "--config", "--log-level", "--log-format", "<debug|info|warn|ERROR>"} {
		require.Contains(testInstance, helpOutput, expectedFragment)
	}
	require.Empty(testInstance, harness.runner.recordedCommands)
}

func TestApplicationDispatchesOperations(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		prompterInputs   []string
		expectedCommands []string
		expectedOutput   string
	}{
		{
			name:           "no_operation",
			arguments:      []string{},
			expectedOutput: testNoOperationMessageConstant,
			expectedCommands: []string{
				testInsideWorkTreeCommandKey,
			},
		},
		{
			name:           "squash_with_force_push",
			arguments:      []string{"--squash", "--force-push"},
			prompterInputs: []string{"Add widget support"},
			expectedOutput: "Squashing feature-x onto main",
			expectedCommands: []string{
				testInsideWorkTreeCommandKey,
				testCurrentBranchCommandKey,
				"git reset --soft main",
				testStatusCommandKey,
				"git commit -m Add widget support",
				"git push --force",
			},
		},
		{
			name:           "create_pull_request",
			arguments:      []string{"--create-pr", "main"},
			expectedOutput: testExpectedPullRequestURL,
			expectedCommands: []string{
				testInsideWorkTreeCommandKey,
				testCurrentBranchCommandKey,
				testRemoteURLCommandKey,
				"open " + testExpectedPullRequestURL,
			},
		},
		{
			name:           "squash_takes_precedence",
			arguments:      []string{"--squash", "--force-push", "--create-pr", "develop"},
			prompterInputs: []string{"Squashed"},
			expectedOutput: "Squashing feature-x onto main",
			expectedCommands: []string{
				testInsideWorkTreeCommandKey,
				testCurrentBranchCommandKey,
				"git reset --soft main",
				testStatusCommandKey,
				"git commit -m Squashed",
				"git push --force",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance, insideRepositoryResponses(), testStoredConfigurationConstant)
			harness.prompter.inputs = testCase.prompterInputs

			require.NoError(testInstance, harness.execute(testCase.arguments...))
			require.Equal(testInstance, testCase.expectedCommands, harness.runner.commandLines())
			require.Contains(testInstance, harness.output.String(), testCase.expectedOutput)
			for _, recordedCommand := range harness.runner.recordedCommands {
				if recordedCommand.Name == execshell.CommandGit {
					require.Equal(testInstance, testRepositoryPathConstant, recordedCommand.Details.WorkingDirectory)
				}
			}
		})
	}
}

func TestApplicationRunsSetupWhenConfigurationMissing(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, insideRepositoryResponses(), "")
	harness.prompter.inputs = []string{"develop"}
	harness.prompter.selections = []int{1}

	require.NoError(testInstance, harness.execute())

	storedContent, readError := afero.ReadFile(harness.fileSystem, filepath.Join(testHomeDirectoryConstant, ".git-toolbelt-config.json"))
	require.NoError(testInstance, readError)
	require.JSONEq(testInstance, `{"baseBranch":"develop","gitProvider":"gitlab"}`, string(storedContent))
	require.Equal(testInstance, []string{"Default base branch"}, harness.prompter.inputLabels)
	require.Contains(testInstance, harness.output.String(), "Git Toolbelt initial setup:")
	require.Contains(testInstance, harness.output.String(), testNoOperationMessageConstant)
}

func TestApplicationResetRemovesConfiguration(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, insideRepositoryResponses(), testStoredConfigurationConstant)

	require.NoError(testInstance, harness.execute("--reset", "--squash"))

	exists, existsError := afero.Exists(harness.fileSystem, filepath.Join(testHomeDirectoryConstant, ".git-toolbelt-config.json"))
	require.NoError(testInstance, existsError)
	require.False(testInstance, exists)
	require.Contains(testInstance, harness.output.String(), testConfigurationResetConstant)
	require.Empty(testInstance, harness.runner.recordedCommands)
}

func TestApplicationBrowserFailureFallsBackToClipboard(testInstance *testing.T) {
	responses := insideRepositoryResponses()
	responses["open "+testExpectedPullRequestURL] = execshell.ExecutionResult{ExitCode: 1}
	responses["xdg-open "+testExpectedPullRequestURL] = execshell.ExecutionResult{ExitCode: 1}
	responses["rundll32 url.dll,FileProtocolHandler "+testExpectedPullRequestURL] = execshell.ExecutionResult{ExitCode: 1}
	harness := newApplicationHarness(testInstance, responses, testStoredConfigurationConstant)

	require.NoError(testInstance, harness.execute("--create-pr", "main"))
	require.Equal(testInstance, []string{testExpectedPullRequestURL}, harness.clipboard)
	require.Contains(testInstance, harness.output.String(), "Open this URL manually")
}

func TestApplicationMissingBrowserOpenersStayQuiet(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		assertLog func(testInstance *testing.T, errorOutput string)
	}{
		{
			name:      "default_log_level",
			arguments: []string{"--create-pr", "main"},
			assertLog: func(testInstance *testing.T, errorOutput string) {
				require.Empty(testInstance, errorOutput)
			},
		},
		{
			name:      "debug_log_level",
			arguments: []string{"--create-pr", "main", "--log-level", "debug"},
			assertLog: func(testInstance *testing.T, errorOutput string) {
				require.Contains(testInstance, errorOutput, "xdg-open")
				require.NotContains(testInstance, errorOutput, "ERROR")
				require.NotContains(testInstance, errorOutput, ".go:")
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance, insideRepositoryResponses(), testStoredConfigurationConstant)
			harness.runner.startFailures = map[execshell.CommandName]error{}
			for _, candidate := range browser.DefaultCandidates() {
				harness.runner.startFailures[candidate.Name] = fmt.Errorf("%w: %s", execshell.ErrExecutableNotFound, candidate.Name)
			}

			require.NoError(testInstance, harness.execute(testCase.arguments...))
			require.Contains(testInstance, harness.output.String(), "Could not open a browser. Open this URL manually: "+testExpectedPullRequestURL)
			require.Equal(testInstance, []string{testExpectedPullRequestURL}, harness.clipboard)
			testCase.assertLog(testInstance, harness.errorOutput.String())
		})
	}
}

func TestApplicationFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		responses     map[string]execshell.ExecutionResult
		stored        string
		arguments     []string
		expectedError error
		expectedText  string
	}{
		{
			name:          "not_a_repository",
			responses:     map[string]execshell.ExecutionResult{testInsideWorkTreeCommandKey: {ExitCode: 128, StandardError: "fatal: not a git repository"}},
			stored:        testStoredConfigurationConstant,
			arguments:     []string{"--squash"},
			expectedError: dispatch.ErrNotAGitRepository,
		},
		{
			name:          "blank_pull_request_target",
			responses:     insideRepositoryResponses(),
			stored:        testStoredConfigurationConstant,
			arguments:     []string{"--create-pr", " "},
			expectedError: cli.ErrPullRequestTargetRequired,
		},
		{
			name:         "corrupt_configuration",
			responses:    insideRepositoryResponses(),
			stored:       "{not json",
			arguments:    []string{"--squash"},
			expectedText: "configuration file is corrupt",
		},
		{
			name:         "unsupported_log_level",
			responses:    insideRepositoryResponses(),
			stored:       testStoredConfigurationConstant,
			arguments:    []string{"--log-level", "verbose"},
			expectedText: "unsupported value",
		},
		{
			name:         "unexpected_argument",
			responses:    insideRepositoryResponses(),
			stored:       testStoredConfigurationConstant,
			arguments:    []string{"main"},
			expectedText: "unknown command",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance, testCase.responses, testCase.stored)
			executionError := harness.execute(testCase.arguments...)
			require.Error(testInstance, executionError)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedError)
			}
			if len(testCase.expectedText) > 0 {
				require.ErrorContains(testInstance, executionError, testCase.expectedText)
			}
		})
	}
}

func TestApplicationRejectsInvalidApplicationConfiguration(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testApplicationConfigFileName)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testApplicationConfigFileContent), 0o600))

	harness := newApplicationHarness(testInstance, insideRepositoryResponses(), testStoredConfigurationConstant)
	executionError := harness.execute("--config", configurationFilePath)
	require.ErrorContains(testInstance, executionError, "unsupported log level")
	require.Empty(testInstance, harness.runner.recordedCommands)
}

func TestApplicationStructuredLoggingWritesJSON(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, insideRepositoryResponses(), testStoredConfigurationConstant)

	require.NoError(testInstance, harness.execute("--log-level", "debug", "--log-format", "structured"))
	require.Contains(testInstance, harness.errorOutput.String(), "\"msg\":\"configuration initialized\"")
	require.Contains(testInstance, harness.errorOutput.String(), "\"action\":\"no_operation\"")
}
