package squash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitman/internal/prompt"
	"github.com/temirov/gitman/internal/ui"
)

const (
	repositoryManagerNotConfiguredMessage = "repository manager not configured"
	prompterNotConfiguredMessage          = "prompter not configured"
	reporterNotConfiguredMessage          = "reporter not configured"
	baseBranchRequiredMessage             = "base branch required"
	squashStartTemplate                   = "Squashing %s onto %s"
	nothingToCommitTemplate               = "No changes to commit after resetting onto %s; nothing was squashed."
	commitMessageLabel                    = "Commit message"
	blankCommitMessageWarning             = "Commit message cannot be empty."
	commitCreatedTemplate                 = "Created squashed commit on %s."
	forcePushConfirmationTemplate         = "Force push %s to the remote?"
	pushedTemplate                        = "Force-pushed %s."
	pushSkippedMessage                    = "Changes were not pushed. Run git push --force when ready."
	currentBranchFailureTemplate          = "unable to determine current branch: %w"
	softResetFailureTemplate              = "unable to reset %s onto %s: %w"
	statusFailureTemplate                 = "unable to inspect working tree: %w"
	commitMessageFailureTemplate          = "unable to read commit message: %w"
	commitFailureTemplate                 = "unable to commit squashed changes: %w"
	confirmationFailureTemplate           = "unable to confirm force push: %w"
	pushFailureTemplate                   = "unable to force push %s: %w"
)

// ErrRepositoryManagerNotConfigured indicates a missing repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerNotConfiguredMessage)

// ErrPrompterNotConfigured indicates a missing prompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessage)

// ErrReporterNotConfigured indicates a missing reporter.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessage)

// ErrBaseBranchRequired indicates that no base branch was supplied.
var ErrBaseBranchRequired = errors.New(baseBranchRequiredMessage)

// GitRepositoryManager exposes the git operations needed to squash a branch.
type GitRepositoryManager interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	SoftReset(executionContext context.Context, repositoryPath string, reference string) error
	GetWorkingTreeStatus(executionContext context.Context, repositoryPath string) (string, error)
	Commit(executionContext context.Context, repositoryPath string, message string) error
	ForcePush(executionContext context.Context, repositoryPath string) error
}

// Dependencies enumerates collaborators required by the squash service.
type Dependencies struct {
	RepositoryManager GitRepositoryManager
	Prompter          prompt.Prompter
	Reporter          ui.Reporter
}

// Options configures a squash run.
type Options struct {
	RepositoryPath string
	BaseBranch     string
	ForcePush      bool
}

// Result summarizes the outcome of a squash run.
type Result struct {
	BranchName string
	Committed  bool
	Pushed     bool
}

// Service squashes the current branch.
type Service struct {
	repositoryManager GitRepositoryManager
	prompter          prompt.Prompter
	reporter          ui.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		prompter:          dependencies.Prompter,
		reporter:          dependencies.Reporter,
	}, nil
}

// Squash soft-resets onto the base branch, commits everything as one commit, and optionally force pushes.
// History is rewritten in place; the reflog is the only way back.
func (service *Service) Squash(executionContext context.Context, options Options) (Result, error) {
	baseBranch := strings.TrimSpace(options.BaseBranch)
	if len(baseBranch) == 0 {
		return Result{}, ErrBaseBranchRequired
	}

	branchName, branchError := service.repositoryManager.GetCurrentBranch(executionContext, options.RepositoryPath)
	if branchError != nil {
		return Result{}, fmt.Errorf(currentBranchFailureTemplate, branchError)
	}
	result := Result{BranchName: branchName}

	service.reporter.Info(fmt.Sprintf(squashStartTemplate, branchName, baseBranch))
	if resetError := service.repositoryManager.SoftReset(executionContext, options.RepositoryPath, baseBranch); resetError != nil {
		return result, fmt.Errorf(softResetFailureTemplate, branchName, baseBranch, resetError)
	}

	status, statusError := service.repositoryManager.GetWorkingTreeStatus(executionContext, options.RepositoryPath)
	if statusError != nil {
		return result, fmt.Errorf(statusFailureTemplate, statusError)
	}
	if len(strings.TrimSpace(status)) == 0 {
		service.reporter.Warning(fmt.Sprintf(nothingToCommitTemplate, baseBranch))
		return result, nil
	}

	commitMessage, messageError := service.promptCommitMessage()
	if messageError != nil {
		return result, fmt.Errorf(commitMessageFailureTemplate, messageError)
	}
	if commitError := service.repositoryManager.Commit(executionContext, options.RepositoryPath, commitMessage); commitError != nil {
		return result, fmt.Errorf(commitFailureTemplate, commitError)
	}
	result.Committed = true
	service.reporter.Success(fmt.Sprintf(commitCreatedTemplate, branchName))

	if !options.ForcePush {
		confirmed, confirmationError := service.prompter.Confirm(prompt.ConfirmRequest{
			Label:   fmt.Sprintf(forcePushConfirmationTemplate, branchName),
			Default: false,
		})
		if confirmationError != nil {
			return result, fmt.Errorf(confirmationFailureTemplate, confirmationError)
		}
		if !confirmed {
			service.reporter.Warning(pushSkippedMessage)
			return result, nil
		}
	}

	if pushError := service.repositoryManager.ForcePush(executionContext, options.RepositoryPath); pushError != nil {
		return result, fmt.Errorf(pushFailureTemplate, branchName, pushError)
	}
	result.Pushed = true
	service.reporter.Success(fmt.Sprintf(pushedTemplate, branchName))
	return result, nil
}

func (service *Service) promptCommitMessage() (string, error) {
	for {
		answer, inputError := service.prompter.Input(prompt.InputRequest{Label: commitMessageLabel})
		if inputError != nil {
			return "", inputError
		}
		trimmedAnswer := strings.TrimSpace(answer)
		if len(trimmedAnswer) > 0 {
			return trimmedAnswer, nil
		}
		service.reporter.Warning(blankCommitMessageWarning)
	}
}
