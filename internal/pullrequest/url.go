package pullrequest

import (
	"fmt"

	"github.com/temirov/gitman/internal/configstore"
)

const (
	githubCompareTemplate        = "https://github.com/%s/compare/%s...%s?expand=1"
	gitlabMergeRequestTemplate   = "https://gitlab.com/%s/-/merge_requests/new?merge_request[source_branch]=%s&merge_request[target_branch]=%s"
	bitbucketPullRequestTemplate = "https://bitbucket.org/%s/pull-requests/new?source=%s&dest=%s"
	unsupportedProviderTemplate  = "%w: %q"
)

// BuildURL interpolates the repository and branches into the provider's page template.
// Branch names are inserted verbatim.
func BuildURL(provider configstore.Provider, repositoryPath string, sourceBranch string, targetBranch string) (string, error) {
	switch provider {
	case configstore.ProviderGitHub:
		return fmt.Sprintf(githubCompareTemplate, repositoryPath, targetBranch, sourceBranch), nil
	case configstore.ProviderGitLab:
		return fmt.Sprintf(gitlabMergeRequestTemplate, repositoryPath, sourceBranch, targetBranch), nil
	case configstore.ProviderBitbucket:
		return fmt.Sprintf(bitbucketPullRequestTemplate, repositoryPath, sourceBranch, targetBranch), nil
	default:
		return "", fmt.Errorf(unsupportedProviderTemplate, configstore.ErrUnknownProvider, provider.String())
	}
}
