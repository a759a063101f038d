// Package dispatch routes a single toolbelt invocation: reset the configuration, or
// validate the repository, make sure a configuration exists, and run squash or pull request.
package dispatch
