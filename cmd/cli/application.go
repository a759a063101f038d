package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitman/internal/browser"
	"github.com/temirov/gitman/internal/configstore"
	"github.com/temirov/gitman/internal/dispatch"
	"github.com/temirov/gitman/internal/execshell"
	"github.com/temirov/gitman/internal/gitrepo"
	"github.com/temirov/gitman/internal/prompt"
	"github.com/temirov/gitman/internal/pullrequest"
	"github.com/temirov/gitman/internal/setup"
	"github.com/temirov/gitman/internal/squash"
	"github.com/temirov/gitman/internal/ui"
	"github.com/temirov/gitman/internal/utils"
	"github.com/temirov/gitman/internal/utils/flags"
	pathutils "github.com/temirov/gitman/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitman"
	applicationShortDescriptionConstant     = "Squash branches and open pull requests from the command line"
	applicationLongDescriptionConstant      = "gitman squashes the current branch onto the configured base branch and opens the pull request page for it.\nThe base branch and git provider are stored in ~/.git-toolbelt-config.json and collected interactively on first use."
	squashFlagNameConstant                  = "squash"
	squashFlagUsageConstant                 = "Squash all commits on the current branch onto the base branch."
	forcePushFlagNameConstant               = "force-push"
	forcePushFlagUsageConstant              = "Force push after squashing without asking for confirmation."
	createPullRequestFlagNameConstant       = "create-pr"
	createPullRequestFlagUsageConstant      = "Open the pull request page comparing the current branch against the `target` branch."
	resetFlagNameConstant                   = "reset"
	resetFlagUsageConstant                  = "Delete the saved toolbelt configuration."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to an application configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "GITMAN"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "gitman"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	toolbeltStoreFieldConstant              = "toolbelt_configuration"
	repositoryPathFieldConstant             = "repository_path"
	actionFieldConstant                     = "action"
	dispatchCompletedMessageConstant        = "toolbelt invocation completed"
	storePathResolvedMessageConstant        = "toolbelt configuration path resolved"
	configurationLoadErrorTemplateConstant  = "unable to load application configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	promptStyleErrorTemplateConstant        = "invalid toolbelt.prompt_style: %w"
	storePathErrorTemplateConstant          = "unable to resolve toolbelt configuration path: %w"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
	wiringErrorTemplateConstant             = "unable to initialize %s: %w"
	missingPullRequestTargetMessageConstant = "--create-pr requires a non-empty target branch"
	shellExecutorComponentConstant          = "command executor"
	repositoryManagerComponentConstant      = "repository manager"
	browserComponentConstant                = "browser opener"
	prompterComponentConstant               = "prompter"
	setupComponentConstant                  = "setup"
	squashComponentConstant                 = "squash"
	pullRequestComponentConstant            = "pull request"
	dispatcherComponentConstant             = "dispatcher"
)

// ErrPullRequestTargetRequired indicates --create-pr was given a blank branch name.
var ErrPullRequestTargetRequired = errors.New(missingPullRequestTargetMessageConstant)

// ApplicationConfiguration describes the application configuration loaded by Viper.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration   `mapstructure:"common"`
	Toolbelt ApplicationToolbeltConfiguration `mapstructure:"toolbelt"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolbeltConfiguration stores settings for the toolbelt operations.
type ApplicationToolbeltConfiguration struct {
	ConfigurationPath string `mapstructure:"configuration_path"`
	Remote            string `mapstructure:"remote"`
	PromptStyle       string `mapstructure:"prompt_style"`
}

type toolbeltFlagValues struct {
	squash            bool
	forcePush         bool
	pullRequestTarget string
	reset             bool
}

// ApplicationOption customizes an Application.
type ApplicationOption func(application *Application)

// WithCommandRunner replaces the process runner used for git and browser commands.
func WithCommandRunner(runner execshell.CommandRunner) ApplicationOption {
	return func(application *Application) {
		if runner != nil {
			application.commandRunner = runner
		}
	}
}

// WithFileSystem replaces the filesystem holding the toolbelt configuration.
func WithFileSystem(fileSystem afero.Fs) ApplicationOption {
	return func(application *Application) {
		if fileSystem != nil {
			application.fileSystem = fileSystem
		}
	}
}

// WithHomeDirectoryProvider replaces the home directory lookup used to locate the toolbelt configuration.
func WithHomeDirectoryProvider(provider pathutils.HomeDirectoryProvider) ApplicationOption {
	return func(application *Application) {
		if provider != nil {
			application.homeExpander = pathutils.NewHomeExpanderWithProvider(provider)
		}
	}
}

// WithPrompter replaces the interactive prompter.
func WithPrompter(prompter prompt.Prompter) ApplicationOption {
	return func(application *Application) {
		application.prompter = prompter
	}
}

// WithClipboard replaces the clipboard used when a browser cannot be opened.
func WithClipboard(clipboard pullrequest.ClipboardWriter) ApplicationOption {
	return func(application *Application) {
		application.clipboard = clipboard
	}
}

// WithWorkingDirectory sets the repository path instead of the process working directory.
func WithWorkingDirectory(workingDirectory string) ApplicationOption {
	return func(application *Application) {
		application.workingDirectory = workingDirectory
	}
}

// WithConfigurationSearchPaths replaces the directories searched for the application configuration file.
func WithConfigurationSearchPaths(searchPaths ...string) ApplicationOption {
	return func(application *Application) {
		application.configurationSearchPaths = append([]string(nil), searchPaths...)
	}
}

// Application wires the Cobra root command, configuration loader, logger, and toolbelt services.
type Application struct {
	rootCommand              *cobra.Command
	logger                   *zap.Logger
	configuration            ApplicationConfiguration
	configurationMetadata    utils.LoadedConfiguration
	configurationFilePath    string
	configurationSearchPaths []string
	logLevelValue            *flags.ChoiceValue
	logFormatValue           *flags.ChoiceValue
	flagValues               toolbeltFlagValues
	commandContextAccessor   utils.CommandContextAccessor
	commandRunner            execshell.CommandRunner
	fileSystem               afero.Fs
	homeExpander             *pathutils.HomeExpander
	prompter                 prompt.Prompter
	clipboard                pullrequest.ClipboardWriter
	workingDirectory         string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	application := &Application{
		logger:                   zap.NewNop(),
		configurationSearchPaths: defaultConfigurationSearchPaths(),
		logLevelValue:            flags.NewChoiceValue(string(utils.LogLevelError), utils.SupportedLogLevels()),
		logFormatValue:           flags.NewChoiceValue(string(utils.LogFormatConsole), utils.SupportedLogFormats()),
		commandContextAccessor:   utils.NewCommandContextAccessor(),
		commandRunner:            execshell.NewOSCommandRunner(),
		fileSystem:               afero.NewOsFs(),
		homeExpander:             pathutils.NewHomeExpander(),
	}
	for _, option := range options {
		if option != nil {
			option(application)
		}
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runToolbelt(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.Flags().BoolVar(&application.flagValues.squash, squashFlagNameConstant, false, squashFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.flagValues.forcePush, forcePushFlagNameConstant, false, forcePushFlagUsageConstant)
	cobraCommand.Flags().StringVar(&application.flagValues.pullRequestTarget, createPullRequestFlagNameConstant, "", createPullRequestFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.flagValues.reset, resetFlagNameConstant, false, resetFlagUsageConstant)

	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().Var(application.logLevelValue, logLevelFlagNameConstant, application.logLevelValue.Usage(logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().Var(application.logFormatValue, logFormatFlagNameConstant, application.logFormatValue.Usage(logFormatFlagUsageConstant))

	application.rootCommand = cobraCommand
	return application
}

// Command exposes the root Cobra command.
func (application *Application) Command() *cobra.Command {
	return application.rootCommand
}

// Execute runs the root command and flushes the logger.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under executionContext; cancelling it stops any running git process.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := utils.SyncLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes it.
func Execute() error {
	return NewApplication().Execute()
}

// ExecuteContext builds a fresh application instance and executes it under executionContext.
func ExecuteContext(executionContext context.Context) error {
	return NewApplication().ExecuteContext(executionContext)
}

func defaultConfigurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderSettings{
		ConfigurationName:         configurationNameConstant,
		ConfigurationType:         configurationTypeConstant,
		EnvironmentPrefix:         environmentPrefixConstant,
		SearchPaths:               application.configurationSearchPaths,
		EmbeddedConfiguration:     embeddedConfiguration,
		EmbeddedConfigurationType: embeddedConfigurationType,
	})

	rootFlags := command.Root().PersistentFlags()
	loadedConfiguration, loadError := configurationLoader.LoadConfiguration(
		application.configurationFilePath,
		&application.configuration,
		utils.FlagBinding{Key: commonLogLevelConfigKeyConstant, Flag: rootFlags.Lookup(logLevelFlagNameConstant)},
		utils.FlagBinding{Key: commonLogFormatConfigKeyConstant, Flag: rootFlags.Lookup(logFormatFlagNameConstant)},
	)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	logLevel, logLevelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}

	loggerFactory := utils.NewLoggerFactory(utils.WithLogOutput(command.ErrOrStderr()))
	logger, loggerCreationError := loggerFactory.CreateLogger(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
	command.SetContext(updatedContext)
	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) runToolbelt(command *cobra.Command) error {
	request, requestError := application.buildRequest(command)
	if requestError != nil {
		return requestError
	}

	executionContext := application.commandContextAccessor.WithRepositoryPath(command.Context(), request.RepositoryPath)
	dispatcher, wiringError := application.buildDispatcher(command)
	if wiringError != nil {
		return wiringError
	}

	outcome, dispatchError := dispatcher.Dispatch(executionContext, request)
	if dispatchError != nil {
		return dispatchError
	}

	application.logger.Info(
		dispatchCompletedMessageConstant,
		zap.String(actionFieldConstant, string(outcome.Action)),
		zap.String(repositoryPathFieldConstant, request.RepositoryPath),
	)
	return nil
}

func (application *Application) buildRequest(command *cobra.Command) (dispatch.Request, error) {
	pullRequestTarget := strings.TrimSpace(application.flagValues.pullRequestTarget)
	if command.Flags().Changed(createPullRequestFlagNameConstant) && len(pullRequestTarget) == 0 {
		return dispatch.Request{}, ErrPullRequestTargetRequired
	}

	repositoryPath := application.workingDirectory
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return dispatch.Request{}, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		repositoryPath = workingDirectory
	}

	return dispatch.Request{
		Reset:             application.flagValues.reset,
		Squash:            application.flagValues.squash,
		ForcePush:         application.flagValues.forcePush,
		PullRequestTarget: pullRequestTarget,
		RepositoryPath:    repositoryPath,
		RemoteName:        application.configuration.Toolbelt.Remote,
	}, nil
}

func (application *Application) buildDispatcher(command *cobra.Command) (*dispatch.Dispatcher, error) {
	executorOptions := []execshell.ShellExecutorOption{}
	if application.humanReadableLoggingEnabled() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(application.logger)))
	}
	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, application.commandRunner, executorOptions...)
	if executorError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, shellExecutorComponentConstant, executorError)
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	errorWriter := utils.NewFlushingWriter(command.ErrOrStderr())
	notifier := ui.NewNotifier(outputWriter, errorWriter)

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor, gitrepo.WithProgressOutput(outputWriter, errorWriter))
	if managerError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, repositoryManagerComponentConstant, managerError)
	}

	browserOpener, browserError := browser.NewOpener(shellExecutor)
	if browserError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, browserComponentConstant, browserError)
	}

	prompter, prompterError := application.resolvePrompter(command)
	if prompterError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, prompterComponentConstant, prompterError)
	}

	storePath, storePathError := application.resolveStorePath()
	if storePathError != nil {
		return nil, fmt.Errorf(storePathErrorTemplateConstant, storePathError)
	}
	application.logger.Debug(storePathResolvedMessageConstant, zap.String(toolbeltStoreFieldConstant, storePath))
	store := configstore.NewFileStore(application.fileSystem, storePath)

	setupService, setupError := setup.NewService(setup.Dependencies{
		Store:           store,
		Prompter:        prompter,
		Reporter:        notifier,
		RemoteInspector: repositoryManager,
	})
	if setupError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, setupComponentConstant, setupError)
	}

	squashService, squashError := squash.NewService(squash.Dependencies{
		RepositoryManager: repositoryManager,
		Prompter:          prompter,
		Reporter:          notifier,
	})
	if squashError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, squashComponentConstant, squashError)
	}

	pullRequestService, pullRequestError := pullrequest.NewService(pullrequest.Dependencies{
		RepositoryManager: repositoryManager,
		Browser:           browserOpener,
		Reporter:          notifier,
		Clipboard:         application.clipboard,
	})
	if pullRequestError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, pullRequestComponentConstant, pullRequestError)
	}

	dispatcher, dispatcherError := dispatch.NewDispatcher(dispatch.Dependencies{
		Store:             store,
		WorkTreeValidator: repositoryManager,
		Setup:             setupService,
		Squash:            squashService,
		PullRequest:       pullRequestService,
		Reporter:          notifier,
	})
	if dispatcherError != nil {
		return nil, fmt.Errorf(wiringErrorTemplateConstant, dispatcherComponentConstant, dispatcherError)
	}
	return dispatcher, nil
}

func (application *Application) resolvePrompter(command *cobra.Command) (prompt.Prompter, error) {
	if application.prompter != nil {
		return application.prompter, nil
	}
	promptStyle, styleError := prompt.ParseStyle(application.configuration.Toolbelt.PromptStyle)
	if styleError != nil {
		return nil, fmt.Errorf(promptStyleErrorTemplateConstant, styleError)
	}
	return prompt.NewPrompter(promptStyle, command.InOrStdin(), command.OutOrStdout())
}

func (application *Application) resolveStorePath() (string, error) {
	configuredPath := strings.TrimSpace(application.configuration.Toolbelt.ConfigurationPath)
	if len(configuredPath) > 0 {
		return application.homeExpander.Expand(configuredPath), nil
	}
	return application.homeExpander.JoinHome(configstore.DefaultFileNameConstant)
}
