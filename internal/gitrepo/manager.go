package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/gitman/internal/execshell"
)

const (
	revParseSubcommandConstant      = "rev-parse"
	isInsideWorkTreeFlagConstant    = "--is-inside-work-tree"
	abbrevRefFlagConstant           = "--abbrev-ref"
	headReferenceConstant           = "HEAD"
	remoteSubcommandConstant        = "remote"
	getURLSubcommandConstant        = "get-url"
	statusSubcommandConstant        = "status"
	porcelainFlagConstant           = "--porcelain"
	resetSubcommandConstant         = "reset"
	softFlagConstant                = "--soft"
	commitSubcommandConstant        = "commit"
	messageFlagConstant             = "-m"
	pushSubcommandConstant          = "push"
	forceFlagConstant               = "--force"
	trueOutputConstant              = "true"
	executorNotConfiguredMessage    = "git executor not configured"
	gitCommandFailedMessageConstant = "git command failed"
	gitFailureTemplateConstant      = "%w: %s: %w"
	detachedHeadMessageConstant     = "detached HEAD has no branch name"
	requiredValueMessageConstant    = "value required"
	currentBranchOperationConstant  = "resolve current branch"
	remoteURLOperationTemplate      = "read url of remote %s"
	workingTreeStatusOperation      = "inspect working tree status"
	softResetOperationTemplate      = "soft reset onto %s"
	commitOperationConstant         = "create commit"
	forcePushOperationConstant      = "force push"
	emptyRemoteURLMessageTemplate   = "remote %s has no url"
)

// DefaultRemoteNameConstant names the remote consulted when none is configured.
const DefaultRemoteNameConstant = "origin"

// ErrGitExecutorNotConfigured indicates a nil executor was provided.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// ErrGitCommandFailed indicates that a git invocation needed by a command did not succeed.
var ErrGitCommandFailed = errors.New(gitCommandFailedMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManagerOption customizes a RepositoryManager.
type RepositoryManagerOption func(manager *RepositoryManager)

// WithProgressOutput streams git's own output for commit and push to the provided writers.
func WithProgressOutput(outputWriter io.Writer, errorWriter io.Writer) RepositoryManagerOption {
	return func(manager *RepositoryManager) {
		manager.progressOutput = outputWriter
		manager.progressErrors = errorWriter
	}
}

// RepositoryManager runs git operations against a repository directory.
type RepositoryManager struct {
	executor       GitExecutor
	progressOutput io.Writer
	progressErrors io.Writer
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor, options ...RepositoryManagerOption) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	manager := &RepositoryManager{executor: executor}
	for _, option := range options {
		if option != nil {
			option(manager)
		}
	}
	return manager, nil
}

// IsInsideWorkTree reports whether the path belongs to a git work tree. Any failure yields false.
func (manager *RepositoryManager) IsInsideWorkTree(executionContext context.Context, repositoryPath string) bool {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, isInsideWorkTreeFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(executionResult.StandardOutput) == trueOutputConstant
}

// GetCurrentBranch returns the abbreviated name of the checked out branch.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbrevRefFlagConstant, headReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", wrapGitFailure(currentBranchOperationConstant, executionError)
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || branchName == headReferenceConstant {
		return "", wrapGitFailure(currentBranchOperationConstant, errors.New(detachedHeadMessageConstant))
	}
	return branchName, nil
}

// GetRemoteURL returns the fetch URL configured for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	resolvedRemote := strings.TrimSpace(remoteName)
	if len(resolvedRemote) == 0 {
		resolvedRemote = DefaultRemoteNameConstant
	}
	operation := fmt.Sprintf(remoteURLOperationTemplate, resolvedRemote)

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, getURLSubcommandConstant, resolvedRemote},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", wrapGitFailure(operation, executionError)
	}

	remoteURL := strings.TrimSpace(executionResult.StandardOutput)
	if len(remoteURL) == 0 {
		return "", wrapGitFailure(operation, fmt.Errorf(emptyRemoteURLMessageTemplate, resolvedRemote))
	}
	return remoteURL, nil
}

// GetWorkingTreeStatus returns the porcelain status output; an empty string means nothing to commit.
func (manager *RepositoryManager) GetWorkingTreeStatus(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, porcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", wrapGitFailure(workingTreeStatusOperation, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// SoftReset moves the current branch pointer to the reference while keeping all changes staged.
func (manager *RepositoryManager) SoftReset(executionContext context.Context, repositoryPath string, reference string) error {
	trimmedReference := strings.TrimSpace(reference)
	operation := fmt.Sprintf(softResetOperationTemplate, trimmedReference)
	if len(trimmedReference) == 0 {
		return wrapGitFailure(operation, errors.New(requiredValueMessageConstant))
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{resetSubcommandConstant, softFlagConstant, trimmedReference},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return wrapGitFailure(operation, executionError)
	}
	return nil
}

// Commit records the staged changes with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	if len(strings.TrimSpace(message)) == 0 {
		return wrapGitFailure(commitOperationConstant, errors.New(requiredValueMessageConstant))
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, messageFlagConstant, message},
		WorkingDirectory: repositoryPath,
		OutputWriter:     manager.progressOutput,
		ErrorWriter:      manager.progressErrors,
	})
	if executionError != nil {
		return wrapGitFailure(commitOperationConstant, executionError)
	}
	return nil
}

// ForcePush overwrites the upstream branch with the local history.
func (manager *RepositoryManager) ForcePush(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, forceFlagConstant},
		WorkingDirectory: repositoryPath,
		OutputWriter:     manager.progressOutput,
		ErrorWriter:      manager.progressErrors,
	})
	if executionError != nil {
		return wrapGitFailure(forcePushOperationConstant, executionError)
	}
	return nil
}

func wrapGitFailure(operation string, cause error) error {
	return fmt.Errorf(gitFailureTemplateConstant, ErrGitCommandFailed, operation, cause)
}
