package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitman/internal/configstore"
	"github.com/temirov/gitman/internal/gitrepo"
	"github.com/temirov/gitman/internal/prompt"
	"github.com/temirov/gitman/internal/ui"
)

const (
	// DefaultBaseBranchConstant is offered when no base branch has been recorded.
	DefaultBaseBranchConstant = "main"

	setupBannerConstant             = "Git Toolbelt initial setup:"
	baseBranchLabelConstant         = "Default base branch"
	providerLabelConstant           = "Git provider"
	blankBaseBranchWarningConstant  = "Base branch cannot be empty."
	configurationSavedConstant      = "Configuration saved: base branch %s, provider %s."
	storeNotConfiguredMessage       = "configuration store not configured"
	prompterNotConfiguredMessage    = "prompter not configured"
	reporterNotConfiguredMessage    = "reporter not configured"
	baseBranchPromptFailureTemplate = "unable to read base branch: %w"
	providerPromptFailureTemplate   = "unable to read git provider: %w"
	saveFailureTemplate             = "unable to save configuration: %w"
	selectionOutOfRangeMessage      = "provider selection out of range"
	selectionOutOfRangeTemplate     = "%w: %d"
)

// ErrStoreNotConfigured indicates a missing configuration store.
var ErrStoreNotConfigured = errors.New(storeNotConfiguredMessage)

// ErrPrompterNotConfigured indicates a missing prompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessage)

// ErrReporterNotConfigured indicates a missing reporter.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessage)

// ErrSelectionOutOfRange indicates the prompter returned an index outside the provider list.
var ErrSelectionOutOfRange = errors.New(selectionOutOfRangeMessage)

// RemoteInspector reads remote URLs to suggest a provider.
type RemoteInspector interface {
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// Dependencies enumerates collaborators required by the setup service.
type Dependencies struct {
	Store           configstore.Store
	Prompter        prompt.Prompter
	Reporter        ui.Reporter
	RemoteInspector RemoteInspector
}

// Options configures a setup run.
type Options struct {
	RepositoryPath string
	RemoteName     string
	// Previous holds whatever partial configuration was loaded; its values become prompt defaults.
	Previous configstore.Configuration
}

// Service prompts for and persists the toolbelt configuration.
type Service struct {
	store           configstore.Store
	prompter        prompt.Prompter
	reporter        ui.Reporter
	remoteInspector RemoteInspector
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	return &Service{
		store:           dependencies.Store,
		prompter:        dependencies.Prompter,
		reporter:        dependencies.Reporter,
		remoteInspector: dependencies.RemoteInspector,
	}, nil
}

// Run asks for the base branch and provider, saves them, and returns the new configuration.
func (service *Service) Run(executionContext context.Context, options Options) (configstore.Configuration, error) {
	service.reporter.Heading(setupBannerConstant)

	baseBranch, baseBranchError := service.promptBaseBranch(options.Previous.BaseBranch)
	if baseBranchError != nil {
		return configstore.Configuration{}, fmt.Errorf(baseBranchPromptFailureTemplate, baseBranchError)
	}

	providers := configstore.SupportedProviders()
	providerLabels := make([]string, 0, len(providers))
	for _, provider := range providers {
		providerLabels = append(providerLabels, provider.String())
	}
	selectedIndex, selectError := service.prompter.Select(prompt.SelectRequest{
		Label:        providerLabelConstant,
		Options:      providerLabels,
		DefaultIndex: indexOfProvider(providers, service.suggestProvider(executionContext, options)),
	})
	if selectError != nil {
		return configstore.Configuration{}, fmt.Errorf(providerPromptFailureTemplate, selectError)
	}
	if selectedIndex < 0 || selectedIndex >= len(providers) {
		return configstore.Configuration{}, fmt.Errorf(providerPromptFailureTemplate, fmt.Errorf(selectionOutOfRangeTemplate, ErrSelectionOutOfRange, selectedIndex))
	}

	configuration := configstore.Configuration{BaseBranch: baseBranch, Provider: providers[selectedIndex]}
	if saveError := service.store.Save(configuration); saveError != nil {
		return configstore.Configuration{}, fmt.Errorf(saveFailureTemplate, saveError)
	}

	service.reporter.Success(fmt.Sprintf(configurationSavedConstant, configuration.BaseBranch, configuration.Provider))
	return configuration, nil
}

func (service *Service) promptBaseBranch(previous string) (string, error) {
	defaultBaseBranch := strings.TrimSpace(previous)
	if len(defaultBaseBranch) == 0 {
		defaultBaseBranch = DefaultBaseBranchConstant
	}

	for {
		answer, inputError := service.prompter.Input(prompt.InputRequest{Label: baseBranchLabelConstant, Default: defaultBaseBranch})
		if inputError != nil {
			return "", inputError
		}
		trimmedAnswer := strings.TrimSpace(answer)
		if len(trimmedAnswer) > 0 {
			return trimmedAnswer, nil
		}
		service.reporter.Warning(blankBaseBranchWarningConstant)
	}
}

func (service *Service) suggestProvider(executionContext context.Context, options Options) configstore.Provider {
	if options.Previous.Provider.IsValid() {
		return options.Previous.Provider
	}
	if service.remoteInspector == nil {
		return configstore.ProviderGitHub
	}

	remoteURL, remoteError := service.remoteInspector.GetRemoteURL(executionContext, options.RepositoryPath, options.RemoteName)
	if remoteError != nil {
		return configstore.ProviderGitHub
	}
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return configstore.ProviderGitHub
	}
	provider, found := configstore.ProviderForHost(parsedRemote.Host)
	if !found {
		return configstore.ProviderGitHub
	}
	return provider
}

func indexOfProvider(providers []configstore.Provider, target configstore.Provider) int {
	for providerIndex, provider := range providers {
		if provider == target {
			return providerIndex
		}
	}
	return 0
}
