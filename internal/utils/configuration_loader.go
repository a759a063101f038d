package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	flagBindingErrorTemplateConstant                = "failed to bind flag %s to %s: %w"
	decodeSliceSeparatorConstant                    = ","
)

// ConfigurationLoaderSettings describes where a ConfigurationLoader looks for configuration.
type ConfigurationLoaderSettings struct {
	ConfigurationName         string
	ConfigurationType         string
	EnvironmentPrefix         string
	SearchPaths               []string
	EmbeddedConfiguration     []byte
	EmbeddedConfigurationType string
}

// FlagBinding maps a configuration key to a command-line flag that overrides it when set.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// ConfigurationLoader wraps Viper to merge embedded defaults, configuration files,
// environment variables, and explicitly set flags, in increasing precedence.
type ConfigurationLoader struct {
	settings               ConfigurationLoaderSettings
	environmentKeyReplacer *strings.Replacer
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader from the provided settings.
func NewConfigurationLoader(settings ConfigurationLoaderSettings) *ConfigurationLoader {
	copiedSettings := settings
	copiedSettings.SearchPaths = append([]string(nil), settings.SearchPaths...)
	copiedSettings.EmbeddedConfiguration = append([]byte(nil), settings.EmbeddedConfiguration...)
	copiedSettings.EmbeddedConfigurationType = strings.TrimSpace(settings.EmbeddedConfigurationType)

	return &ConfigurationLoader{
		settings:               copiedSettings,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// LoadConfiguration populates targetConfiguration. An explicit configurationFilePath must exist;
// otherwise the search paths are consulted and a missing file is not an error.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any, flagBindings ...FlagBinding) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.settings.ConfigurationName)
	viperInstance.SetConfigType(loader.settings.ConfigurationType)

	if len(loader.settings.EmbeddedConfiguration) > 0 {
		embeddedType := loader.settings.ConfigurationType
		if len(loader.settings.EmbeddedConfigurationType) > 0 {
			embeddedType = loader.settings.EmbeddedConfigurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.settings.EmbeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
		viperInstance.SetConfigType(loader.settings.ConfigurationType)
	}

	for _, searchPath := range loader.settings.SearchPaths {
		if len(strings.TrimSpace(searchPath)) > 0 {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	viperInstance.SetEnvPrefix(loader.settings.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	for _, binding := range flagBindings {
		if binding.Flag == nil {
			continue
		}
		if bindError := viperInstance.BindPFlag(binding.Key, binding.Flag); bindError != nil {
			return LoadedConfiguration{}, fmt.Errorf(flagBindingErrorTemplateConstant, binding.Flag.Name, binding.Key, bindError)
		}
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(decodeSliceSeparatorConstant),
	))
	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
