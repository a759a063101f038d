// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// RepositoryManager wraps the git subprocess calls used by the squash and pull request
// commands, and the remote URL helpers derive owner/repository pairs from remotes.
package gitrepo
