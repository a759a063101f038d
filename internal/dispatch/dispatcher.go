package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitman/internal/configstore"
	"github.com/temirov/gitman/internal/pullrequest"
	"github.com/temirov/gitman/internal/setup"
	"github.com/temirov/gitman/internal/squash"
	"github.com/temirov/gitman/internal/ui"
)

const (
	notAGitRepositoryMessage      = "not a git repository"
	storeNotConfiguredMessage     = "configuration store not configured"
	validatorNotConfiguredMessage = "work tree validator not configured"
	setupNotConfiguredMessage     = "setup runner not configured"
	squashNotConfiguredMessage    = "squash runner not configured"
	pullRequestNotConfiguredMsg   = "pull request opener not configured"
	reporterNotConfiguredMessage  = "reporter not configured"
	configurationResetMessage     = "Configuration reset."
	configurationAbsentMessage    = "No configuration found to reset."
	noOperationMessage            = "No valid operation specified. Use --help for usage."
	resetFailureTemplate          = "unable to reset configuration: %w"
	loadFailureTemplate           = "unable to load configuration: %w"
	setupFailureTemplate          = "configuration setup failed: %w"
	incompleteSetupTemplate       = "configuration setup produced an incomplete configuration: %+v"
	notAGitRepositoryTemplate     = "%w: %s"
	unparseableRemoteTemplate     = "Pull request skipped: %v"
)

// Action names the branch the dispatcher took.
type Action string

// Dispatcher actions.
const (
	ActionReset       Action = "reset"
	ActionSquash      Action = "squash"
	ActionPullRequest Action = "pull_request"
	ActionNoOperation Action = "no_operation"
)

// ErrNotAGitRepository indicates that the working directory is outside a git work tree.
var ErrNotAGitRepository = errors.New(notAGitRepositoryMessage)

// ErrStoreNotConfigured indicates a missing configuration store.
var ErrStoreNotConfigured = errors.New(storeNotConfiguredMessage)

// ErrWorkTreeValidatorNotConfigured indicates a missing work tree validator.
var ErrWorkTreeValidatorNotConfigured = errors.New(validatorNotConfiguredMessage)

// ErrSetupNotConfigured indicates a missing setup runner.
var ErrSetupNotConfigured = errors.New(setupNotConfiguredMessage)

// ErrSquashNotConfigured indicates a missing squash runner.
var ErrSquashNotConfigured = errors.New(squashNotConfiguredMessage)

// ErrPullRequestNotConfigured indicates a missing pull request opener.
var ErrPullRequestNotConfigured = errors.New(pullRequestNotConfiguredMsg)

// ErrReporterNotConfigured indicates a missing reporter.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessage)

// WorkTreeValidator reports whether a path belongs to a git work tree.
type WorkTreeValidator interface {
	IsInsideWorkTree(executionContext context.Context, repositoryPath string) bool
}

// SetupRunner creates a complete configuration interactively.
type SetupRunner interface {
	Run(executionContext context.Context, options setup.Options) (configstore.Configuration, error)
}

// SquashRunner squashes the current branch.
type SquashRunner interface {
	Squash(executionContext context.Context, options squash.Options) (squash.Result, error)
}

// PullRequestOpener opens the pull request page for the current branch.
type PullRequestOpener interface {
	Open(executionContext context.Context, options pullrequest.Options) (pullrequest.Result, error)
}

// Dependencies enumerates collaborators required by the dispatcher.
type Dependencies struct {
	Store             configstore.Store
	WorkTreeValidator WorkTreeValidator
	Setup             SetupRunner
	Squash            SquashRunner
	PullRequest       PullRequestOpener
	Reporter          ui.Reporter
}

// Request captures the flags of one invocation.
type Request struct {
	Reset             bool
	Squash            bool
	ForcePush         bool
	PullRequestTarget string
	RepositoryPath    string
	RemoteName        string
}

// Outcome describes what a dispatch did.
type Outcome struct {
	Action               Action
	ConfigurationRemoved bool
	SetupPerformed       bool
	Configuration        configstore.Configuration
	SquashResult         *squash.Result
	PullRequestResult    *pullrequest.Result
}

// Dispatcher runs one invocation from start to finish.
type Dispatcher struct {
	store             configstore.Store
	workTreeValidator WorkTreeValidator
	setup             SetupRunner
	squash            SquashRunner
	pullRequest       PullRequestOpener
	reporter          ui.Reporter
}

// NewDispatcher validates dependencies and constructs a Dispatcher.
func NewDispatcher(dependencies Dependencies) (*Dispatcher, error) {
	switch {
	case dependencies.Store == nil:
		return nil, ErrStoreNotConfigured
	case dependencies.WorkTreeValidator == nil:
		return nil, ErrWorkTreeValidatorNotConfigured
	case dependencies.Setup == nil:
		return nil, ErrSetupNotConfigured
	case dependencies.Squash == nil:
		return nil, ErrSquashNotConfigured
	case dependencies.PullRequest == nil:
		return nil, ErrPullRequestNotConfigured
	case dependencies.Reporter == nil:
		return nil, ErrReporterNotConfigured
	}
	return &Dispatcher{
		store:             dependencies.Store,
		workTreeValidator: dependencies.WorkTreeValidator,
		setup:             dependencies.Setup,
		squash:            dependencies.Squash,
		pullRequest:       dependencies.PullRequest,
		reporter:          dependencies.Reporter,
	}, nil
}

// Dispatch executes the request. Reset short-circuits everything else; squash takes
// precedence over pull request when both are requested.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, request Request) (Outcome, error) {
	if request.Reset {
		return dispatcher.reset()
	}

	if !dispatcher.workTreeValidator.IsInsideWorkTree(executionContext, request.RepositoryPath) {
		return Outcome{}, fmt.Errorf(notAGitRepositoryTemplate, ErrNotAGitRepository, request.RepositoryPath)
	}

	configuration, setupPerformed, configurationError := dispatcher.ensureConfiguration(executionContext, request)
	if configurationError != nil {
		return Outcome{}, configurationError
	}
	outcome := Outcome{Configuration: configuration, SetupPerformed: setupPerformed}

	switch {
	case request.Squash:
		outcome.Action = ActionSquash
		squashResult, squashError := dispatcher.squash.Squash(executionContext, squash.Options{
			RepositoryPath: request.RepositoryPath,
			BaseBranch:     configuration.BaseBranch,
			ForcePush:      request.ForcePush,
		})
		if squashError != nil {
			return outcome, squashError
		}
		outcome.SquashResult = &squashResult
		return outcome, nil
	case len(strings.TrimSpace(request.PullRequestTarget)) > 0:
		outcome.Action = ActionPullRequest
		pullRequestResult, pullRequestError := dispatcher.pullRequest.Open(executionContext, pullrequest.Options{
			RepositoryPath: request.RepositoryPath,
			TargetBranch:   request.PullRequestTarget,
			Provider:       configuration.Provider,
			RemoteName:     request.RemoteName,
		})
		if pullRequestError != nil {
			if errors.Is(pullRequestError, pullrequest.ErrRemoteURLUnparseable) {
				dispatcher.reporter.Error(fmt.Sprintf(unparseableRemoteTemplate, pullRequestError))
				return outcome, nil
			}
			return outcome, pullRequestError
		}
		outcome.PullRequestResult = &pullRequestResult
		return outcome, nil
	default:
		outcome.Action = ActionNoOperation
		dispatcher.reporter.Info(noOperationMessage)
		return outcome, nil
	}
}

func (dispatcher *Dispatcher) reset() (Outcome, error) {
	removed, resetError := dispatcher.store.Reset()
	if resetError != nil {
		return Outcome{Action: ActionReset}, fmt.Errorf(resetFailureTemplate, resetError)
	}
	if removed {
		dispatcher.reporter.Success(configurationResetMessage)
	} else {
		dispatcher.reporter.Info(configurationAbsentMessage)
	}
	return Outcome{Action: ActionReset, ConfigurationRemoved: removed}, nil
}

func (dispatcher *Dispatcher) ensureConfiguration(executionContext context.Context, request Request) (configstore.Configuration, bool, error) {
	configuration, loadError := dispatcher.store.Load()
	if loadError != nil {
		return configstore.Configuration{}, false, fmt.Errorf(loadFailureTemplate, loadError)
	}
	if configuration.IsComplete() {
		return configuration, false, nil
	}

	configuration, setupError := dispatcher.setup.Run(executionContext, setup.Options{
		RepositoryPath: request.RepositoryPath,
		RemoteName:     request.RemoteName,
		Previous:       configuration,
	})
	if setupError != nil {
		return configstore.Configuration{}, false, fmt.Errorf(setupFailureTemplate, setupError)
	}
	if !configuration.IsComplete() {
		return configstore.Configuration{}, false, fmt.Errorf(incompleteSetupTemplate, configuration)
	}
	return configuration, true, nil
}
