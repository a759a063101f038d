// Package pullrequest builds the provider page for opening a pull or merge request
// from the current branch and launches it in the browser.
package pullrequest
