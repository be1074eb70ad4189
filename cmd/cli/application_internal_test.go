package cli

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
	"github.com/temirov/gitcreator/internal/githubapi/testsupport"
	"github.com/temirov/gitcreator/internal/githubauth"
	"github.com/temirov/gitcreator/internal/utils"
)

const (
	internalTestBaseURLConstant      = "https://github.example.com/api/v3"
	internalTestTokenSourceConstant  = "env:ENTERPRISE_TOKEN"
	internalTestTokenVariableName    = "ENTERPRISE_TOKEN"
	internalTestTokenValueConstant   = "enterprise-token"
	internalTestFallbackTokenValue   = "fallback-token"
	internalTestRepositoriesEndpoint = internalTestBaseURLConstant + "/user/repos"
)

func newInternalTestApplication(environment map[string]string, httpClient githubapi.HTTPClient) *Application {
	return &Application{
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		tokenResolver: githubauth.NewResolver(func(key string) (string, bool) {
			value, exists := environment[key]
			return value, exists
		}, nil, nil),
		httpClient: httpClient,
	}
}

func TestInitializeConfigurationAttachesGitHubSettings(testInstance *testing.T) {
	testInstance.Setenv(configurationSearchPathEnvironmentName, testInstance.TempDir())
	testInstance.Setenv(environmentPrefixConstant+"_GITHUB_BASE_URL", internalTestBaseURLConstant)

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(tokenSourceFlagNameConstant, internalTestTokenSourceConstant))

	require.NoError(testInstance, application.initializeConfiguration(rootCommand))

	settings, settingsAvailable := application.commandContextAccessor.GitHubSettings(rootCommand.Context())
	require.True(testInstance, settingsAvailable)
	require.Equal(testInstance, utils.GitHubSettings{BaseURL: internalTestBaseURLConstant, TokenSource: internalTestTokenSourceConstant}, settings)
}

func TestNewGitHubClientUsesResolvedCredential(testInstance *testing.T) {
	testCases := []struct {
		name          string
		tokenSource   string
		environment   map[string]string
		expectedToken string
	}{
		{
			name:          "declared_environment_source",
			tokenSource:   internalTestTokenSourceConstant,
			environment:   map[string]string{internalTestTokenVariableName: internalTestTokenValueConstant, "GH_TOKEN": internalTestFallbackTokenValue},
			expectedToken: internalTestTokenValueConstant,
		},
		{
			name:          "standard_variable_fallback",
			environment:   map[string]string{"GITHUB_TOKEN": internalTestFallbackTokenValue},
			expectedToken: internalTestFallbackTokenValue,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := testsupport.NewRecordingHTTPClient().
				Respond(http.MethodGet, internalTestRepositoriesEndpoint, testsupport.StubResponse{StatusCode: http.StatusOK, Body: "[]"})
			application := newInternalTestApplication(testCase.environment, httpClient)
			executionContext := application.commandContextAccessor.WithGitHubSettings(context.Background(), utils.GitHubSettings{
				BaseURL:     internalTestBaseURLConstant,
				TokenSource: testCase.tokenSource,
			})

			client, clientError := application.newGitHubClient(executionContext)
			require.NoError(testInstance, clientError)

			_, requestError := client.Do(executionContext, githubapi.Request{
				Operation:      "list repositories",
				Method:         http.MethodGet,
				URL:            client.Endpoint("user", "repos"),
				ExpectedStatus: http.StatusOK,
			})
			require.NoError(testInstance, requestError)
			require.Len(testInstance, httpClient.Requests, 1)
			require.Equal(testInstance, "Bearer "+testCase.expectedToken, httpClient.Requests[0].Header.Get("Authorization"))
		})
	}
}

func TestNewGitHubClientReportsMissingCredential(testInstance *testing.T) {
	application := newInternalTestApplication(map[string]string{}, nil)

	client, clientError := application.newGitHubClient(context.Background())
	require.ErrorIs(testInstance, clientError, githubauth.ErrCredentialNotFound)
	require.ErrorContains(testInstance, clientError, "unable to resolve GitHub token")
	require.Nil(testInstance, client)
}
