package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitman/internal/execshell"
)

const (
	macOpenCommandConstant       = "open"
	linuxOpenCommandConstant     = "xdg-open"
	windowsOpenCommandConstant   = "rundll32"
	windowsURLHandlerConstant    = "url.dll,FileProtocolHandler"
	executorNotConfiguredMessage = "command executor not configured"
	browserOpenFailedMessage     = "unable to open browser"
	urlRequiredMessage           = "url required"
	noCandidatesMessage          = "no opener commands configured"
	openFailureTemplate          = "%w: %w"
)

// ErrExecutorNotConfigured indicates a nil executor was provided.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// ErrBrowserOpenFailed indicates that no opener command succeeded.
var ErrBrowserOpenFailed = errors.New(browserOpenFailedMessage)

// CommandExecutor runs opener commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Candidate is an opener command; the URL is appended to Arguments.
type Candidate struct {
	Name      execshell.CommandName
	Arguments []string
}

// DefaultCandidates lists the macOS, Linux, and Windows openers in the order they are tried.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: execshell.CommandName(macOpenCommandConstant)},
		{Name: execshell.CommandName(linuxOpenCommandConstant)},
		{Name: execshell.CommandName(windowsOpenCommandConstant), Arguments: []string{windowsURLHandlerConstant}},
	}
}

// OpenerOption customizes an Opener.
type OpenerOption func(opener *Opener)

// WithCandidates replaces the opener commands.
func WithCandidates(candidates []Candidate) OpenerOption {
	return func(opener *Opener) {
		opener.candidates = append([]Candidate(nil), candidates...)
	}
}

// Opener launches URLs by trying each candidate command until one succeeds.
type Opener struct {
	executor   CommandExecutor
	candidates []Candidate
}

// NewOpener constructs an Opener trying DefaultCandidates unless WithCandidates is given.
func NewOpener(executor CommandExecutor, options ...OpenerOption) (*Opener, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	opener := &Opener{executor: executor, candidates: DefaultCandidates()}
	for _, option := range options {
		if option != nil {
			option(opener)
		}
	}
	return opener, nil
}

// Open blocks until a candidate exits successfully. When every candidate fails the
// returned error wraps ErrBrowserOpenFailed and the last failure.
func (opener *Opener) Open(executionContext context.Context, url string) error {
	trimmedURL := strings.TrimSpace(url)
	if len(trimmedURL) == 0 {
		return fmt.Errorf(openFailureTemplate, ErrBrowserOpenFailed, errors.New(urlRequiredMessage))
	}

	lastError := errors.New(noCandidatesMessage)
	for _, candidate := range opener.candidates {
		arguments := append(append([]string(nil), candidate.Arguments...), trimmedURL)
		_, executionError := opener.executor.Execute(executionContext, execshell.ShellCommand{
			Name:    candidate.Name,
			Details: execshell.CommandDetails{Arguments: arguments},
		})
		if executionError == nil {
			return nil
		}
		lastError = executionError
		if contextError := executionContext.Err(); contextError != nil {
			return fmt.Errorf(openFailureTemplate, ErrBrowserOpenFailed, contextError)
		}
	}
	return fmt.Errorf(openFailureTemplate, ErrBrowserOpenFailed, lastError)
}
