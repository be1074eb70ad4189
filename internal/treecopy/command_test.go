package treecopy_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcreator/internal/githubapi/testsupport"
	"github.com/temirov/gitcreator/internal/treecopy"
)

func TestCommandRunScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		expectError      bool
		expectedOutput   string
		expectedRequests int
	}{
		{
			name:             "copies_tree",
			arguments:        []string{"--source", "octocat/template", "--destination", "hubot/project"},
			expectedOutput:   "copied 2 files from octocat/template to hubot/project\n",
			expectedRequests: 6,
		},
		{
			name:        "rejects_malformed_source",
			arguments:   []string{"--source", "octocat", "--destination", "hubot/project"},
			expectError: true,
		},
		{
			name:        "rejects_missing_destination",
			arguments:   []string{"--source", "octocat/template"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := newExampleTreeClient().
				Respond(http.MethodPut, destinationContentsURLConstant+"/a.txt", testsupport.StubResponse{StatusCode: http.StatusCreated}).
				Respond(http.MethodPut, destinationContentsURLConstant+"/dir/b.txt", testsupport.StubResponse{StatusCode: http.StatusCreated})
			builder := &treecopy.CommandBuilder{
				ClientProvider: func(context.Context) (treecopy.RemoteClient, error) {
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
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			}
			require.Len(testInstance, httpClient.Requests, testCase.expectedRequests)
		})
	}
}
