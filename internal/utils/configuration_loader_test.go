package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/utils"
)

const (
	testConfigurationNameConstant        = "config"
	testConfigurationTypeConstant        = "yaml"
	testEnvironmentPrefixConstant        = "FORGESYNC_TEST"
	testConfigurationFileNameConstant    = "config.yaml"
	testConfigurationContentConstant     = "common:\n  log_level: debug\n"
	testDefaultsOnlyCaseNameConstant     = "defaults_only"
	testFileOverridesCaseNameConstant    = "file_overrides_defaults"
	testMalformedContentCaseNameConstant = "malformed_content"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name             string
		fileContent      string
		expectError      bool
		expectedLogLevel string
	}{
		{
			name:             testDefaultsOnlyCaseNameConstant,
			fileContent:      "",
			expectedLogLevel: "info",
		},
		{
			name:             testFileOverridesCaseNameConstant,
			fileContent:      testConfigurationContentConstant,
			expectedLogLevel: "debug",
		},
		{
			name:        testMalformedContentCaseNameConstant,
			fileContent: "common: [",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				temporaryDirectory := testInstance.TempDir()
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}

			loader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{testInstance.TempDir()},
			)

			defaultValues := map[string]any{"common.log_level": "info"}
			var loadedTarget loaderTestConfiguration
			loadedMetadata, loadError := loader.LoadConfiguration(configurationFilePath, defaultValues, &loadedTarget)

			if testCase.expectError {
				require.Error(testInstance, loadError)
				return
			}

			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedTarget.Common.LogLevel)
			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, loadedMetadata.ConfigFileUsed)
			}
		})
	}
}
