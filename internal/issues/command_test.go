package issues_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcreator/internal/githubapi/testsupport"
	"github.com/temirov/gitcreator/internal/issues"
)

func TestCommandRunScenarios(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		providerError  error
		expectError    bool
		expectedOutput string
	}{
		{
			name:           "migrates_open_issues",
			arguments:      []string{"--source", "octocat/template", "--destination", "hubot/project"},
			expectedOutput: "migrated 1 issues from octocat/template to hubot/project\n",
		},
		{
			name:        "rejects_malformed_destination",
			arguments:   []string{"--source", "octocat/template", "--destination", "hubot/"},
			expectError: true,
		},
		{
			name:          "surfaces_client_failure",
			arguments:     []string{"--source", "octocat/template", "--destination", "hubot/project"},
			providerError: errors.New("no credential"),
			expectError:   true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := testsupport.NewRecordingHTTPClient().
				Respond(http.MethodGet, sourceIssuesURLConstant+"?state=open", testsupport.StubResponse{StatusCode: http.StatusOK, Body: `[{"number":4,"title":"only","state":"open"}]`}).
				Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: createdIssueBodyConstant})
			builder := &issues.CommandBuilder{
				ClientProvider: func(context.Context) (issues.RemoteClient, error) {
					if testCase.providerError != nil {
						return nil, testCase.providerError
					}
					return testsupport.NewClient(testInstance, httpClient), nil
				},
			}

			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)
			outputBuffer := &bytes.Buffer{}
			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SetOut(outputBuffer)
			command.SetErr(io.Discard)

			executionError := command.Execute()
			if testCase.expectError {
				require.Error(testInstance, executionError)
				require.Empty(testInstance, httpClient.Requests)
				return
			}
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}
