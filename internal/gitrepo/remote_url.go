package gitrepo

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	remoteURLParseErrorTemplateConstant = "%s: %s"
	schemeSeparatorConstant             = "://"
	scpPathDelimiterConstant            = ":"
	scpUserDelimiterConstant            = "@"
	repositoryPathSeparatorConstant     = "/"
	missingRepositoryPathMessage        = "no owner/repository segment found"
	missingHostMessage                  = "no host found"
	unsupportedSchemeMessageTemplate    = "unsupported scheme %s"
	repositoryPathPatternConstant       = `[:/]([^/]+/[^/.]+)(\.git)?$`
)

var repositoryPathPattern = regexp.MustCompile(repositoryPathPatternConstant)

var supportedRemoteSchemes = map[string]struct{}{
	"ssh":   {},
	"https": {},
	"http":  {},
	"git":   {},
}

// RemoteURL is the host and repository coordinates carried by a git remote.
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
}

// RepositoryPath joins the owner and repository as "owner/repository".
func (remoteURL RemoteURL) RepositoryPath() string {
	return remoteURL.Owner + repositoryPathSeparatorConstant + remoteURL.Repository
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ExtractRepositoryPath returns the "owner/repository" pair carried by the last two path segments
// of a remote URL. Accepted forms are git@host:owner/repository(.git) and
// https://host/owner/repository(.git). Repository names containing dots are not matched.
func ExtractRepositoryPath(remote string) (string, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return "", RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	matches := repositoryPathPattern.FindStringSubmatch(trimmedRemote)
	if len(matches) < 2 {
		return "", RemoteURLParseError{Input: remote, Message: missingRepositoryPathMessage}
	}
	return matches[1], nil
}

// ParseRemoteURL splits a remote into host, owner, and repository. Scheme URLs (ssh, https, http, git)
// and scp-like "user@host:owner/repository" remotes are supported.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	repositoryPath, extractError := ExtractRepositoryPath(trimmedRemote)
	if extractError != nil {
		return RemoteURL{}, extractError
	}

	host, hostError := extractHost(trimmedRemote)
	if hostError != nil {
		return RemoteURL{}, hostError
	}

	owner, repository, _ := strings.Cut(repositoryPath, repositoryPathSeparatorConstant)
	return RemoteURL{Host: host, Owner: owner, Repository: repository}, nil
}

func extractHost(remote string) (string, error) {
	if strings.Contains(remote, schemeSeparatorConstant) {
		parsedURL, parseError := url.Parse(remote)
		if parseError != nil {
			return "", RemoteURLParseError{Input: remote, Message: parseError.Error()}
		}
		if _, supported := supportedRemoteSchemes[strings.ToLower(parsedURL.Scheme)]; !supported {
			return "", RemoteURLParseError{Input: remote, Message: fmt.Sprintf(unsupportedSchemeMessageTemplate, parsedURL.Scheme)}
		}
		if len(parsedURL.Hostname()) == 0 {
			return "", RemoteURLParseError{Input: remote, Message: missingHostMessage}
		}
		return parsedURL.Hostname(), nil
	}

	hostWithUser, _, found := strings.Cut(remote, scpPathDelimiterConstant)
	if !found {
		return "", RemoteURLParseError{Input: remote, Message: missingHostMessage}
	}
	if userIndex := strings.LastIndex(hostWithUser, scpUserDelimiterConstant); userIndex >= 0 {
		hostWithUser = hostWithUser[userIndex+1:]
	}
	if len(hostWithUser) == 0 {
		return "", RemoteURLParseError{Input: remote, Message: missingHostMessage}
	}
	return hostWithUser, nil
}
