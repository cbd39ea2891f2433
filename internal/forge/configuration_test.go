package forge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/forge"
)

const (
	testGitHubDecodeCaseNameConstant = "github_entry"
	testGitLabDecodeCaseNameConstant = "gitlab_entry"
	testUnknownTypeCaseNameConstant  = "unknown_type"
	testMissingNameCaseNameConstant  = "missing_name"
)

func TestDecodeDefinitions(testInstance *testing.T) {
	testCases := []struct {
		name           string
		rawDefinitions []map[string]any
		expectedKinds  []forge.Kind
		expectError    bool
	}{
		{
			name: testGitHubDecodeCaseNameConstant,
			rawDefinitions: []map[string]any{
				{
					"type":    "github",
					"name":    "github.invalid",
					"token":   "secret-token",
					"groups":  []string{"example-org"},
					"self":    true,
					"api_url": "https://api.github.invalid/",
				},
			},
			expectedKinds: []forge.Kind{forge.KindGitHub},
		},
		{
			name: testGitLabDecodeCaseNameConstant,
			rawDefinitions: []map[string]any{
				{
					"type":     "gitlab",
					"name":     "gitlab.invalid",
					"token":    "secret-token",
					"groups":   []string{"group/subgroup"},
					"base_url": "https://gitlab.invalid/",
					"gitconfig": map[string]any{
						"user.email": "robot@example.invalid",
					},
				},
			},
			expectedKinds: []forge.Kind{forge.KindGitLab},
		},
		{
			name: testUnknownTypeCaseNameConstant,
			rawDefinitions: []map[string]any{
				{"type": "bitbucket", "name": "unsupported"},
			},
			expectError: true,
		},
		{
			name: testMissingNameCaseNameConstant,
			rawDefinitions: []map[string]any{
				{"type": "github", "token": "secret-token"},
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			decodedDefinitions, decodeError := forge.DecodeDefinitions(testCase.rawDefinitions)
			if testCase.expectError {
				require.Error(testInstance, decodeError)
				return
			}
			require.NoError(testInstance, decodeError)

			decodedKinds := make([]forge.Kind, 0, len(decodedDefinitions))
			for _, decodedDefinition := range decodedDefinitions {
				decodedKinds = append(decodedKinds, decodedDefinition.Kind)
			}
			require.Equal(testInstance, testCase.expectedKinds, decodedKinds)
		})
	}
}

func TestDecodeDefinitionsCarriesVariantFields(testInstance *testing.T) {
	decodedDefinitions, decodeError := forge.DecodeDefinitions([]map[string]any{
		{
			"type":     "gitlab",
			"name":     "gitlab.invalid",
			"token":    "secret-token",
			"base_url": "https://gitlab.invalid/",
			"exclude":  []string{"sandbox"},
		},
	})
	require.NoError(testInstance, decodeError)
	require.Len(testInstance, decodedDefinitions, 1)

	gitlabSettings := decodedDefinitions[0].GitLab
	require.NotNil(testInstance, gitlabSettings)
	require.Equal(testInstance, "https://gitlab.invalid/", gitlabSettings.BaseURL)
	require.Equal(testInstance, []string{"sandbox"}, gitlabSettings.Exclude)
	require.Equal(testInstance, "gitlab.invalid", decodedDefinitions[0].Name())
}

func TestRedactedMasksTokens(testInstance *testing.T) {
	decodedDefinitions, decodeError := forge.DecodeDefinitions([]map[string]any{
		{"type": "github", "name": "github.invalid", "token": "secret-token"},
	})
	require.NoError(testInstance, decodeError)

	redactedDefinition := decodedDefinitions[0].Redacted()
	require.Equal(testInstance, "[redacted]", redactedDefinition.GitHub.Token)
	require.Equal(testInstance, "secret-token", decodedDefinitions[0].GitHub.Token)
}

func TestExclusionSetIsCaseInsensitive(testInstance *testing.T) {
	exclusionSet := forge.ExclusionSet([]string{"Sandbox", " legacy "})
	require.True(testInstance, forge.IsExcluded(exclusionSet, "sandbox"))
	require.True(testInstance, forge.IsExcluded(exclusionSet, "LEGACY"))
	require.False(testInstance, forge.IsExcluded(exclusionSet, "kept"))
}
