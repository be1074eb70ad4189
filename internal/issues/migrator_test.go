package issues_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v72/github"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
	"github.com/temirov/gitcreator/internal/githubapi/testsupport"
	"github.com/temirov/gitcreator/internal/issues"
)

const (
	sourceOwnerConstant            = "octocat"
	sourceRepositoryConstant       = "template"
	destinationOwnerConstant       = "hubot"
	destinationRepositoryConstant  = "project"
	sourceIssuesURLConstant        = testsupport.BaseURLConstant + "/repos/octocat/template/issues"
	sourceCommentsURLConstant      = sourceIssuesURLConstant + "/5/comments"
	destinationIssuesURLConstant   = testsupport.BaseURLConstant + "/repos/hubot/project/issues"
	destinationIssueURLConstant    = destinationIssuesURLConstant + "/11"
	destinationCommentsURLConstant = destinationIssueURLConstant + "/comments"
	createdIssueBodyConstant       = `{"number":11}`
)

func newSourceIssue(state string, commentCount int) *github.Issue {
	return &github.Issue{
		Number:      github.Ptr(5),
		Title:       github.Ptr("Broken build"),
		Body:        github.Ptr("The build fails on main."),
		State:       github.Ptr(state),
		Comments:    github.Ptr(commentCount),
		CommentsURL: github.Ptr(sourceCommentsURLConstant),
		Labels: []*github.Label{
			{Name: github.Ptr("bug")},
			{Name: github.Ptr("ci")},
		},
	}
}

func requestSequence(httpClient *testsupport.RecordingHTTPClient) []string {
	sequence := make([]string, 0, len(httpClient.Requests))
	for _, request := range httpClient.Requests {
		sequence = append(sequence, request.Method+" "+request.URL)
	}
	return sequence
}

func TestCopyIssueScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		issue            *github.Issue
		commentsBody     string
		expectedSequence []string
		expectedComments []string
	}{
		{
			name:             "open_without_comments",
			issue:            newSourceIssue("open", 0),
			expectedSequence: []string{"POST " + destinationIssuesURLConstant},
		},
		{
			name:         "open_with_comments",
			issue:        newSourceIssue("open", 3),
			commentsBody: `[{"body":"first"},{"body":"second"},{"body":"third"}]`,
			expectedSequence: []string{
				"POST " + destinationIssuesURLConstant,
				"GET " + sourceCommentsURLConstant,
				"POST " + destinationCommentsURLConstant,
				"POST " + destinationCommentsURLConstant,
				"POST " + destinationCommentsURLConstant,
			},
			expectedComments: []string{"first", "second", "third"},
		},
		{
			name:         "closed_with_comment",
			issue:        newSourceIssue("closed", 1),
			commentsBody: `[{"body":"fixed"}]`,
			expectedSequence: []string{
				"POST " + destinationIssuesURLConstant,
				"GET " + sourceCommentsURLConstant,
				"POST " + destinationCommentsURLConstant,
				"PATCH " + destinationIssueURLConstant,
			},
			expectedComments: []string{"fixed"},
		},
		{
			name:  "closed_without_comments",
			issue: newSourceIssue("closed", 0),
			expectedSequence: []string{
				"POST " + destinationIssuesURLConstant,
				"PATCH " + destinationIssueURLConstant,
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := testsupport.NewRecordingHTTPClient().
				Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: createdIssueBodyConstant}).
				Respond(http.MethodGet, sourceCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusOK, Body: testCase.commentsBody}).
				Respond(http.MethodPost, destinationCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: `{}`}).
				Respond(http.MethodPatch, destinationIssueURLConstant, testsupport.StubResponse{StatusCode: http.StatusOK, Body: `{}`})
			migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), zap.NewNop())

			newIssueNumber, copyError := migrator.CopyIssue(context.Background(), testCase.issue, destinationOwnerConstant, destinationRepositoryConstant)
			require.NoError(testInstance, copyError)
			require.Equal(testInstance, 11, newIssueNumber)
			require.Equal(testInstance, testCase.expectedSequence, requestSequence(httpClient))

			creationPayload, decodeError := httpClient.Requests[0].DecodeBody()
			require.NoError(testInstance, decodeError)
			require.Equal(testInstance, map[string]any{
				"title":  "Broken build",
				"body":   "The build fails on main.",
				"labels": []any{"bug", "ci"},
			}, creationPayload)

			var postedComments []string
			for _, request := range httpClient.RequestsMatching(http.MethodPost)[1:] {
				commentPayload, commentDecodeError := request.DecodeBody()
				require.NoError(testInstance, commentDecodeError)
				postedComments = append(postedComments, commentPayload["body"].(string))
			}
			require.Equal(testInstance, testCase.expectedComments, postedComments)

			for _, request := range httpClient.RequestsMatching(http.MethodPatch) {
				patchPayload, patchDecodeError := request.DecodeBody()
				require.NoError(testInstance, patchDecodeError)
				require.Equal(testInstance, map[string]any{"state": "closed"}, patchPayload)
			}
		})
	}
}

func TestCopyIssueFollowsCommentPages(testInstance *testing.T) {
	const secondCommentsPageURLConstant = sourceCommentsURLConstant + "?page=2"

	httpClient := testsupport.NewRecordingHTTPClient().
		Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: createdIssueBodyConstant}).
		Respond(http.MethodGet, sourceCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusOK, Body: `[{"body":"one"}]`, NextURL: secondCommentsPageURLConstant}).
		Respond(http.MethodGet, secondCommentsPageURLConstant, testsupport.StubResponse{StatusCode: http.StatusOK, Body: `[{"body":"two"}]`}).
		Respond(http.MethodPost, destinationCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: `{}`})
	migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

	_, copyError := migrator.CopyIssue(context.Background(), newSourceIssue("open", 2), destinationOwnerConstant, destinationRepositoryConstant)
	require.NoError(testInstance, copyError)

	commentRequests := httpClient.RequestsMatching(http.MethodPost)[1:]
	require.Len(testInstance, commentRequests, 2)
	secondPayload, decodeError := commentRequests[1].DecodeBody()
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, "two", secondPayload["body"])
}

func TestCopyIssueFailures(testInstance *testing.T) {
	testInstance.Run("creation_rejected", func(testInstance *testing.T) {
		httpClient := testsupport.NewRecordingHTTPClient().
			Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusGone, Body: `{"message":"Issues are disabled"}`})
		migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

		_, copyError := migrator.CopyIssue(context.Background(), newSourceIssue("closed", 2), destinationOwnerConstant, destinationRepositoryConstant)

		var remoteError githubapi.RemoteRequestError
		require.ErrorAs(testInstance, copyError, &remoteError)
		require.Equal(testInstance, http.StatusGone, remoteError.StatusCode)
		require.Len(testInstance, httpClient.Requests, 1)
	})

	testInstance.Run("comment_rejected_stops_before_close", func(testInstance *testing.T) {
		httpClient := testsupport.NewRecordingHTTPClient().
			Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: createdIssueBodyConstant}).
			Respond(http.MethodGet, sourceCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusOK, Body: `[{"body":"first"},{"body":"second"}]`}).
			Respond(http.MethodPost, destinationCommentsURLConstant, testsupport.StubResponse{StatusCode: http.StatusForbidden})
		migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

		newIssueNumber, copyError := migrator.CopyIssue(context.Background(), newSourceIssue("closed", 2), destinationOwnerConstant, destinationRepositoryConstant)

		var remoteError githubapi.RemoteRequestError
		require.ErrorAs(testInstance, copyError, &remoteError)
		require.Equal(testInstance, http.StatusForbidden, remoteError.StatusCode)
		require.Equal(testInstance, 11, newIssueNumber)
		require.Len(testInstance, httpClient.RequestsMatching(http.MethodPost), 2)
		require.Empty(testInstance, httpClient.RequestsMatching(http.MethodPatch))
	})

	testInstance.Run("nil_issue", func(testInstance *testing.T) {
		migrator := issues.NewMigrator(testsupport.NewClient(testInstance, testsupport.NewRecordingHTTPClient()), nil)

		_, copyError := migrator.CopyIssue(context.Background(), nil, destinationOwnerConstant, destinationRepositoryConstant)
		require.IsType(testInstance, githubapi.InvalidInputError{}, copyError)
	})
}

func TestCopyAllIssuesFollowsNextLinks(testInstance *testing.T) {
	const (
		firstPageURLConstant  = sourceIssuesURLConstant + "?state=open"
		secondPageURLConstant = testsupport.BaseURLConstant + "/repositories/1/issues?page=2&state=open"
	)

	httpClient := testsupport.NewRecordingHTTPClient().
		Respond(http.MethodGet, firstPageURLConstant, testsupport.StubResponse{
			StatusCode: http.StatusOK,
			Body:       `[{"number":1,"title":"first","state":"open","comments":0},{"number":2,"title":"a pull request","state":"open","pull_request":{"url":"https://api.example.test/pulls/2"}}]`,
			NextURL:    secondPageURLConstant,
		}).
		Respond(http.MethodGet, secondPageURLConstant, testsupport.StubResponse{
			StatusCode: http.StatusOK,
			Body:       `[{"number":3,"title":"third","state":"open","comments":0}]`,
		}).
		Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: `{"number":21}`}).
		Respond(http.MethodPost, destinationIssuesURLConstant, testsupport.StubResponse{StatusCode: http.StatusCreated, Body: `{"number":22}`})
	migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

	copiedNumbers, migrationError := migrator.CopyAllIssues(context.Background(), sourceOwnerConstant, sourceRepositoryConstant, destinationOwnerConstant, destinationRepositoryConstant)
	require.NoError(testInstance, migrationError)
	require.Equal(testInstance, []int{21, 22}, copiedNumbers)

	require.Equal(testInstance, []string{
		"GET " + firstPageURLConstant,
		"POST " + destinationIssuesURLConstant,
		"GET " + secondPageURLConstant,
		"POST " + destinationIssuesURLConstant,
	}, requestSequence(httpClient))

	creations := httpClient.RequestsMatching(http.MethodPost)
	secondPayload, decodeError := creations[1].DecodeBody()
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, "third", secondPayload["title"])
}

func TestCopyAllIssuesListingFailure(testInstance *testing.T) {
	httpClient := testsupport.NewRecordingHTTPClient().
		Respond(http.MethodGet, sourceIssuesURLConstant+"?state=open", testsupport.StubResponse{StatusCode: http.StatusNotFound})
	migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

	copiedNumbers, migrationError := migrator.CopyAllIssues(context.Background(), sourceOwnerConstant, sourceRepositoryConstant, destinationOwnerConstant, destinationRepositoryConstant)

	var remoteError githubapi.RemoteRequestError
	require.ErrorAs(testInstance, migrationError, &remoteError)
	require.Equal(testInstance, http.StatusNotFound, remoteError.StatusCode)
	require.Empty(testInstance, copiedNumbers)
}

func TestIssueOperationsValidateInput(testInstance *testing.T) {
	httpClient := testsupport.NewRecordingHTTPClient()
	migrator := issues.NewMigrator(testsupport.NewClient(testInstance, httpClient), nil)

	_, creationError := migrator.CreateIssue(context.Background(), destinationOwnerConstant, destinationRepositoryConstant, " ", "", nil)
	require.IsType(testInstance, githubapi.InvalidInputError{}, creationError)
	require.IsType(testInstance, githubapi.InvalidInputError{}, migrator.CommentOnIssue(context.Background(), destinationOwnerConstant, destinationRepositoryConstant, 0, "body"))
	require.IsType(testInstance, githubapi.InvalidInputError{}, migrator.CloseIssue(context.Background(), "", destinationRepositoryConstant, 1))
	_, listError := migrator.ListComments(context.Background(), "")
	require.IsType(testInstance, githubapi.InvalidInputError{}, listError)
	require.Empty(testInstance, httpClient.Requests)
}
