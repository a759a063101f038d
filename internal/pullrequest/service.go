package pullrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/temirov/gitman/internal/configstore"
	"github.com/temirov/gitman/internal/gitrepo"
	"github.com/temirov/gitman/internal/ui"
)

const (
	repositoryManagerNotConfiguredMessage = "repository manager not configured"
	browserNotConfiguredMessage           = "browser opener not configured"
	reporterNotConfiguredMessage          = "reporter not configured"
	targetBranchRequiredMessage           = "target branch required"
	remoteURLUnparseableMessage           = "unable to parse repository name from remote url"
	remoteURLUnparseableTemplate          = "%w: %w"
	currentBranchFailureTemplate          = "unable to determine current branch: %w"
	remoteURLFailureTemplate              = "unable to read remote url: %w"
	openInBrowserTemplate                 = "Open PR in browser: %s"
	browserFallbackTemplate               = "Could not open a browser. Open this URL manually: %s"
	clipboardCopiedMessage                = "The URL was copied to the clipboard."
)

// ErrRepositoryManagerNotConfigured indicates a missing repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerNotConfiguredMessage)

// ErrBrowserNotConfigured indicates a missing browser opener.
var ErrBrowserNotConfigured = errors.New(browserNotConfiguredMessage)

// ErrReporterNotConfigured indicates a missing reporter.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessage)

// ErrTargetBranchRequired indicates that no target branch was supplied.
var ErrTargetBranchRequired = errors.New(targetBranchRequiredMessage)

// ErrRemoteURLUnparseable indicates that the remote URL carries no owner/repository pair.
var ErrRemoteURLUnparseable = errors.New(remoteURLUnparseableMessage)

// GitRepositoryManager exposes the git queries needed to build the pull request URL.
type GitRepositoryManager interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// BrowserOpener launches URLs.
type BrowserOpener interface {
	Open(executionContext context.Context, url string) error
}

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(text string) error

// Dependencies enumerates collaborators required by the pull request service.
type Dependencies struct {
	RepositoryManager GitRepositoryManager
	Browser           BrowserOpener
	Reporter          ui.Reporter
	// Clipboard defaults to the system clipboard when nil.
	Clipboard ClipboardWriter
}

// Options configures a pull request run.
type Options struct {
	RepositoryPath string
	TargetBranch   string
	Provider       configstore.Provider
	RemoteName     string
}

// Result summarizes the outcome of a pull request run.
type Result struct {
	URL            string
	RepositoryPath string
	SourceBranch   string
	TargetBranch   string
	Opened         bool
}

// Service opens the provider page for a new pull request.
type Service struct {
	repositoryManager GitRepositoryManager
	browser           BrowserOpener
	reporter          ui.Reporter
	clipboard         ClipboardWriter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Browser == nil {
		return nil, ErrBrowserNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	clipboardWriter := dependencies.Clipboard
	if clipboardWriter == nil {
		clipboardWriter = clipboard.WriteAll
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		browser:           dependencies.Browser,
		reporter:          dependencies.Reporter,
		clipboard:         clipboardWriter,
	}, nil
}

// Open resolves the source branch and repository, then opens the provider page.
// A browser failure is not an error: the URL is printed and copied to the clipboard instead.
func (service *Service) Open(executionContext context.Context, options Options) (Result, error) {
	targetBranch := strings.TrimSpace(options.TargetBranch)
	if len(targetBranch) == 0 {
		return Result{}, ErrTargetBranchRequired
	}

	sourceBranch, branchError := service.repositoryManager.GetCurrentBranch(executionContext, options.RepositoryPath)
	if branchError != nil {
		return Result{}, fmt.Errorf(currentBranchFailureTemplate, branchError)
	}

	remoteURL, remoteError := service.repositoryManager.GetRemoteURL(executionContext, options.RepositoryPath, options.RemoteName)
	if remoteError != nil {
		return Result{}, fmt.Errorf(remoteURLFailureTemplate, remoteError)
	}

	repositoryPath, extractError := gitrepo.ExtractRepositoryPath(remoteURL)
	if extractError != nil {
		return Result{}, fmt.Errorf(remoteURLUnparseableTemplate, ErrRemoteURLUnparseable, extractError)
	}

	pullRequestURL, urlError := BuildURL(options.Provider, repositoryPath, sourceBranch, targetBranch)
	if urlError != nil {
		return Result{}, urlError
	}

	result := Result{
		URL:            pullRequestURL,
		RepositoryPath: repositoryPath,
		SourceBranch:   sourceBranch,
		TargetBranch:   targetBranch,
	}

	service.reporter.Info(fmt.Sprintf(openInBrowserTemplate, pullRequestURL))
	if openError := service.browser.Open(executionContext, pullRequestURL); openError != nil {
		service.reporter.Warning(fmt.Sprintf(browserFallbackTemplate, pullRequestURL))
		if clipboardError := service.clipboard(pullRequestURL); clipboardError == nil {
			service.reporter.Info(clipboardCopiedMessage)
		}
		return result, nil
	}

	result.Opened = true
	return result, nil
}
