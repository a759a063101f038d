// Package pathutils resolves user home shortcuts in configured file paths.
package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                 = "~"
	tildeForwardSlashPrefixConstant     = "~/"
	homeDirectoryUnavailableMessage     = "home directory unavailable"
	homeDirectoryUnavailableErrTemplate = "%w: %w"
)

// ErrHomeDirectoryUnavailable indicates the home directory lookup failed.
var ErrHomeDirectoryUnavailable = errors.New(homeDirectoryUnavailableMessage)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander resolves "~" prefixes against a lazily looked-up home directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves "~" and "~/..." to the home directory. Other paths, including "~user", are returned unchanged,
// as are all paths when the home directory cannot be resolved.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory, lookupError := expander.resolveHomeDirectory()
	if lookupError != nil {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

// JoinHome joins fileName onto the home directory.
func (expander *HomeExpander) JoinHome(fileName string) (string, error) {
	homeDirectory, lookupError := expander.resolveHomeDirectory()
	if lookupError != nil {
		return "", lookupError
	}
	return filepath.Join(homeDirectory, fileName), nil
}

func (expander *HomeExpander) resolveHomeDirectory() (string, error) {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
		if expander.homeDirectoryError == nil && len(strings.TrimSpace(expander.homeDirectory)) == 0 {
			expander.homeDirectoryError = errors.New(homeDirectoryUnavailableMessage)
		}
		if expander.homeDirectoryError != nil {
			expander.homeDirectoryError = fmt.Errorf(homeDirectoryUnavailableErrTemplate, ErrHomeDirectoryUnavailable, expander.homeDirectoryError)
		}
	})
	return expander.homeDirectory, expander.homeDirectoryError
}
