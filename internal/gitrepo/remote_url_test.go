package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitman/internal/gitrepo"
)

func TestExtractRepositoryPath(testInstance *testing.T) {
	testCases := []struct {
		name          string
		remote        string
		expected      string
		expectedError bool
	}{
		{name: "ssh_with_suffix", remote: "git@github.com:acme/widget.git", expected: "acme/widget"},
		{name: "ssh_without_suffix", remote: "git@gitlab.com:acme/widget", expected: "acme/widget"},
		{name: "https_with_suffix", remote: "https://github.com/acme/widget.git", expected: "acme/widget"},
		{name: "https_without_suffix", remote: "https://bitbucket.org/acme/widget", expected: "acme/widget"},
		{name: "ssh_scheme", remote: "ssh://git@github.com/acme/widget.git", expected: "acme/widget"},
		{name: "nested_group_uses_last_segments", remote: "https://gitlab.com/group/acme/widget.git", expected: "acme/widget"},
		{name: "surrounding_whitespace", remote: "  git@github.com:acme/widget.git\n", expected: "acme/widget"},
		{name: "not_a_url", remote: "not-a-url", expectedError: true},
		{name: "host_counts_as_owner", remote: "https://github.com/widget", expected: "github.com/widget"},
		{name: "dotted_repository", remote: "git@github.com:acme/widget.io.git", expectedError: true},
		{name: "empty", remote: "", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath, extractError := gitrepo.ExtractRepositoryPath(testCase.remote)
			if testCase.expectedError {
				var parseError gitrepo.RemoteURLParseError
				require.ErrorAs(testInstance, extractError, &parseError)
				return
			}
			require.NoError(testInstance, extractError)
			require.Equal(testInstance, testCase.expected, repositoryPath)
		})
	}
}

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		remote        string
		expected      gitrepo.RemoteURL
		expectedError bool
	}{
		{
			name:     "scp_like",
			remote:   "git@github.com:acme/widget.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "acme", Repository: "widget"},
		},
		{
			name:     "ssh_scheme_with_port",
			remote:   "ssh://git@gitlab.example.org:2222/acme/widget.git",
			expected: gitrepo.RemoteURL{Host: "gitlab.example.org", Owner: "acme", Repository: "widget"},
		},
		{
			name:     "https",
			remote:   "https://bitbucket.org/acme/widget",
			expected: gitrepo.RemoteURL{Host: "bitbucket.org", Owner: "acme", Repository: "widget"},
		},
		{
			name:     "https_with_credentials",
			remote:   "https://token@github.com/acme/widget.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "acme", Repository: "widget"},
		},
		{name: "empty", remote: " ", expectedError: true},
		{name: "unknown_scheme", remote: "ftp://example.com/acme/widget", expectedError: true},
		{name: "local_path", remote: "/srv/git/acme/widget", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remoteURL, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectedError {
				var remoteParseError gitrepo.RemoteURLParseError
				require.ErrorAs(testInstance, parseError, &remoteParseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, remoteURL)
			require.Equal(testInstance, testCase.expected.Owner+"/"+testCase.expected.Repository, remoteURL.RepositoryPath())
		})
	}
}
