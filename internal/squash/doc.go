// Package squash collapses the commits of the current branch into a single commit on top of the base branch.
package squash
