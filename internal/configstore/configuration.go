package configstore

import (
	"errors"
	"fmt"
	"strings"
)

// Provider identifies the hosting service that receives pull requests.
type Provider string

// Supported providers.
const (
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderBitbucket Provider = "bitbucket"
)

const (
	githubHostFragmentConstant    = "github"
	gitlabHostFragmentConstant    = "gitlab"
	bitbucketHostFragmentConstant = "bitbucket"
	unknownProviderTemplate       = "%w: %q"
)

// ErrUnknownProvider indicates that a provider name is outside the supported set.
var ErrUnknownProvider = errors.New("unknown git provider")

// SupportedProviders lists providers in presentation order.
func SupportedProviders() []Provider {
	return []Provider{ProviderGitHub, ProviderGitLab, ProviderBitbucket}
}

// IsValid reports whether the provider belongs to the supported set.
func (provider Provider) IsValid() bool {
	for _, supportedProvider := range SupportedProviders() {
		if provider == supportedProvider {
			return true
		}
	}
	return false
}

// String returns the persisted provider name.
func (provider Provider) String() string {
	return string(provider)
}

// ParseProvider converts user input into a Provider.
func ParseProvider(value string) (Provider, error) {
	candidate := Provider(strings.ToLower(strings.TrimSpace(value)))
	if !candidate.IsValid() {
		return "", fmt.Errorf(unknownProviderTemplate, ErrUnknownProvider, value)
	}
	return candidate, nil
}

// ProviderForHost infers a provider from a remote host name.
func ProviderForHost(host string) (Provider, bool) {
	normalizedHost := strings.ToLower(strings.TrimSpace(host))
	switch {
	case len(normalizedHost) == 0:
		return "", false
	case strings.Contains(normalizedHost, githubHostFragmentConstant):
		return ProviderGitHub, true
	case strings.Contains(normalizedHost, gitlabHostFragmentConstant):
		return ProviderGitLab, true
	case strings.Contains(normalizedHost, bitbucketHostFragmentConstant):
		return ProviderBitbucket, true
	default:
		return "", false
	}
}

// Configuration is the persisted toolbelt configuration.
type Configuration struct {
	BaseBranch string   `json:"baseBranch,omitempty"`
	Provider   Provider `json:"gitProvider,omitempty"`
}

// IsComplete reports whether both fields carry usable values. Partial records are treated as empty.
func (configuration Configuration) IsComplete() bool {
	return len(strings.TrimSpace(configuration.BaseBranch)) > 0 && configuration.Provider.IsValid()
}
