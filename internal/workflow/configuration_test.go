package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcreator/internal/workflow"
)

const (
	configurationTestFileName  = "workflow.yaml"
	topLevelStepsConfiguration = `steps:
  - operation: create-repository
    with:
      name: project
      description: Fresh project
  - operation: Copy-Tree
    with:
      source_owner: octocat
      source_repository: template
      destination_owner: hubot
      destination_repository: project
`
	nestedWorkflowConfiguration = `workflow:
  steps:
    - operation: migrate-issues
      with:
        source_owner: octocat
        source_repository: template
        destination_owner: hubot
        destination_repository: project
`
	jsonConfiguration       = `{"steps":[{"operation":"delete-repository","with":{"owner":"hubot","name":"scratch"}}]}`
	emptyStepsConfiguration = "steps: []\n"
	missingOperationConfig  = "steps:\n  - with:\n      name: project\n"
	malformedConfiguration  = "steps: [\n"
)

func TestParseConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name               string
		contents           string
		expectedOperations []workflow.OperationType
		expectedError      string
	}{
		{
			name:               "top_level_steps",
			contents:           topLevelStepsConfiguration,
			expectedOperations: []workflow.OperationType{workflow.OperationTypeCreateRepository, workflow.OperationTypeCopyTree},
		},
		{
			name:               "nested_under_workflow",
			contents:           nestedWorkflowConfiguration,
			expectedOperations: []workflow.OperationType{workflow.OperationTypeMigrateIssues},
		},
		{
			name:               "json_document",
			contents:           jsonConfiguration,
			expectedOperations: []workflow.OperationType{workflow.OperationTypeDeleteRepository},
		},
		{
			name:          "empty_steps",
			contents:      emptyStepsConfiguration,
			expectedError: "at least one step",
		},
		{
			name:          "missing_operation",
			contents:      missingOperationConfig,
			expectedError: "workflow step 1 missing operation name",
		},
		{
			name:          "malformed_yaml",
			contents:      malformedConfiguration,
			expectedError: "failed to parse workflow configuration",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration, parseError := workflow.ParseConfiguration([]byte(testCase.contents))
			if len(testCase.expectedError) > 0 {
				require.ErrorContains(testInstance, parseError, testCase.expectedError)
				return
			}

			require.NoError(testInstance, parseError)
			operations := make([]workflow.OperationType, 0, len(configuration.Steps))
			for _, step := range configuration.Steps {
				operations = append(operations, step.Operation)
			}
			require.Equal(testInstance, testCase.expectedOperations, operations)
		})
	}
}

func TestLoadConfigurationReadsFile(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), configurationTestFileName)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(topLevelStepsConfiguration), 0o600))

	configuration, loadError := workflow.LoadConfiguration(configurationPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, configuration.Steps, 2)
	require.Equal(testInstance, "project", configuration.Steps[0].Options["name"])

	_, missingPathError := workflow.LoadConfiguration("  ")
	require.ErrorContains(testInstance, missingPathError, "path must be provided")

	_, missingFileError := workflow.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.ErrorContains(testInstance, missingFileError, "failed to load workflow configuration")
}
