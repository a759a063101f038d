package utils

import (
	"context"
	"strings"
)

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	repositoryPathContextKeyConstant        = commandContextKey("repositoryPath")
)

type commandContextKey string

// CommandContextAccessor stores invocation-scoped values on command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the explicit --config path.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return accessor.withValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath returns the recorded --config path.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.value(executionContext, configurationFilePathContextKeyConstant)
}

// WithRepositoryPath records the repository the toolbelt operates on.
func (accessor CommandContextAccessor) WithRepositoryPath(parentContext context.Context, repositoryPath string) context.Context {
	return accessor.withValue(parentContext, repositoryPathContextKeyConstant, repositoryPath)
}

// RepositoryPath returns the recorded repository path. Blank values are reported as absent.
func (accessor CommandContextAccessor) RepositoryPath(executionContext context.Context) (string, bool) {
	return accessor.value(executionContext, repositoryPathContextKeyConstant)
}

func (accessor CommandContextAccessor) withValue(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) value(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedValue, storedValueAvailable := executionContext.Value(key).(string)
	if !storedValueAvailable || len(strings.TrimSpace(storedValue)) == 0 {
		return "", false
	}
	return storedValue, true
}
