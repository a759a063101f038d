package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitman/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/tmp/gitman.yaml")
	executionContext = accessor.WithRepositoryPath(executionContext, "/tmp/repository")

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, "/tmp/gitman.yaml", configurationFilePath)

	repositoryPath, repositoryPathAvailable := accessor.RepositoryPath(executionContext)
	require.True(testInstance, repositoryPathAvailable)
	require.Equal(testInstance, "/tmp/repository", repositoryPath)
}

func TestCommandContextAccessorMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	testCases := []struct {
		name             string
		executionContext context.Context
	}{
		{name: "nil_context", executionContext: nil},
		{name: "empty_context", executionContext: context.Background()},
		{name: "blank_values", executionContext: accessor.WithRepositoryPath(accessor.WithConfigurationFilePath(nil, " "), "")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, configurationFilePathAvailable := accessor.ConfigurationFilePath(testCase.executionContext)
			require.False(testInstance, configurationFilePathAvailable)
			_, repositoryPathAvailable := accessor.RepositoryPath(testCase.executionContext)
			require.False(testInstance, repositoryPathAvailable)
		})
	}
}
