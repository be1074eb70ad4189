package issues

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v72/github"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	reposPathSegmentConstant          = "repos"
	issuesPathSegmentConstant         = "issues"
	commentsPathSegmentConstant       = "comments"
	stateQueryParameterConstant       = "state"
	openStateConstant                 = "open"
	closedStateConstant               = "closed"
	ownerFieldNameConstant            = "owner"
	repositoryFieldNameConstant       = "repository"
	titleFieldNameConstant            = "title"
	issueFieldNameConstant            = "issue"
	commentsURLFieldNameConstant      = "comments_url"
	issueNumberFieldNameConstant      = "issue_number"
	issueNumberMessageConstant        = "must be positive"
	issueMissingMessageConstant       = "issue record required"
	createIssueErrorTemplateConstant  = "unable to create issue in %s/%s: %w"
	commentErrorTemplateConstant      = "unable to comment on %s/%s#%d: %w"
	closeIssueErrorTemplateConstant   = "unable to close %s/%s#%d: %w"
	listCommentsErrorTemplateConstant = "unable to list comments of source issue #%d: %w"
	listIssuesErrorTemplateConstant   = "unable to list open issues of %s/%s: %w"
	copyIssueErrorTemplateConstant    = "unable to copy issue #%d: %w"
	issueCreatedMessageConstant       = "Issue created"
	issueClosedMessageConstant        = "Issue closed"
	issueCopiedMessageConstant        = "Issue copied"
	migrationStartedMessageConstant   = "Migrating open issues"
	migrationCompletedMessageConstant = "Issue migration completed"
	pullRequestSkippedMessageConstant = "Skipping pull request"
	logFieldRepositoryConstant        = "repository"
	logFieldSourceConstant            = "source"
	logFieldDestinationConstant       = "destination"
	logFieldIssueNumberConstant       = "issue_number"
	logFieldSourceNumberConstant      = "source_issue_number"
	logFieldCommentCountConstant      = "comments"
	logFieldIssueCountConstant        = "issues"
	createIssueOperationConstant      = githubapi.OperationName("CreateIssue")
	createCommentOperationConstant    = githubapi.OperationName("CreateIssueComment")
	closeIssueOperationConstant       = githubapi.OperationName("CloseIssue")
	listCommentsOperationConstant     = githubapi.OperationName("ListIssueComments")
	listIssuesOperationConstant       = githubapi.OperationName("ListIssues")
)

// RemoteClient is the subset of githubapi.Client used by Migrator.
type RemoteClient interface {
	Endpoint(segments ...string) string
	Do(executionContext context.Context, request githubapi.Request) (githubapi.Response, error)
}

// Migrator copies issues, their comments and their closed state between repositories.
type Migrator struct {
	client RemoteClient
	logger *zap.Logger
}

// NewMigrator constructs a Migrator.
func NewMigrator(client RemoteClient, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{client: client, logger: logger}
}

// CreateIssue opens an issue in owner/repository and returns its number.
func (migrator *Migrator) CreateIssue(executionContext context.Context, owner string, repository string, title string, body string, labels []string) (int, error) {
	if validationError := requireRepository(owner, repository); validationError != nil {
		return 0, validationError
	}
	if validationError := githubapi.RequireValue(titleFieldNameConstant, title); validationError != nil {
		return 0, validationError
	}

	issueLabels := append(make([]string, 0, len(labels)), labels...)
	response, requestError := migrator.client.Do(executionContext, githubapi.Request{
		Operation: createIssueOperationConstant,
		Method:    http.MethodPost,
		URL:       migrator.client.Endpoint(reposPathSegmentConstant, owner, repository, issuesPathSegmentConstant),
		Payload: &github.IssueRequest{
			Title:  github.Ptr(title),
			Body:   github.Ptr(body),
			Labels: &issueLabels,
		},
		ExpectedStatus: http.StatusCreated,
	})
	if requestError != nil {
		return 0, fmt.Errorf(createIssueErrorTemplateConstant, owner, repository, requestError)
	}

	var created github.Issue
	if decodeError := response.DecodeJSON(createIssueOperationConstant, &created); decodeError != nil {
		return 0, fmt.Errorf(createIssueErrorTemplateConstant, owner, repository, decodeError)
	}

	migrator.logger.Info(
		issueCreatedMessageConstant,
		zap.String(logFieldRepositoryConstant, owner+"/"+repository),
		zap.Int(logFieldIssueNumberConstant, created.GetNumber()),
	)
	return created.GetNumber(), nil
}

// CommentOnIssue appends a comment with the given body to owner/repository#issueNumber.
func (migrator *Migrator) CommentOnIssue(executionContext context.Context, owner string, repository string, issueNumber int, body string) error {
	if validationError := requireIssueAddress(owner, repository, issueNumber); validationError != nil {
		return validationError
	}

	_, requestError := migrator.client.Do(executionContext, githubapi.Request{
		Operation:      createCommentOperationConstant,
		Method:         http.MethodPost,
		URL:            migrator.client.Endpoint(reposPathSegmentConstant, owner, repository, issuesPathSegmentConstant, strconv.Itoa(issueNumber), commentsPathSegmentConstant),
		Payload:        &github.IssueComment{Body: github.Ptr(body)},
		ExpectedStatus: http.StatusCreated,
	})
	if requestError != nil {
		return fmt.Errorf(commentErrorTemplateConstant, owner, repository, issueNumber, requestError)
	}
	return nil
}

// CloseIssue transitions owner/repository#issueNumber to the closed state.
func (migrator *Migrator) CloseIssue(executionContext context.Context, owner string, repository string, issueNumber int) error {
	if validationError := requireIssueAddress(owner, repository, issueNumber); validationError != nil {
		return validationError
	}

	_, requestError := migrator.client.Do(executionContext, githubapi.Request{
		Operation:      closeIssueOperationConstant,
		Method:         http.MethodPatch,
		URL:            migrator.client.Endpoint(reposPathSegmentConstant, owner, repository, issuesPathSegmentConstant, strconv.Itoa(issueNumber)),
		Payload:        &github.IssueRequest{State: github.Ptr(closedStateConstant)},
		ExpectedStatus: http.StatusOK,
	})
	if requestError != nil {
		return fmt.Errorf(closeIssueErrorTemplateConstant, owner, repository, issueNumber, requestError)
	}

	migrator.logger.Info(
		issueClosedMessageConstant,
		zap.String(logFieldRepositoryConstant, owner+"/"+repository),
		zap.Int(logFieldIssueNumberConstant, issueNumber),
	)
	return nil
}

// ListComments fetches every comment behind commentsURL, following next links.
func (migrator *Migrator) ListComments(executionContext context.Context, commentsURL string) ([]*github.IssueComment, error) {
	if validationError := githubapi.RequireValue(commentsURLFieldNameConstant, commentsURL); validationError != nil {
		return nil, validationError
	}

	var comments []*github.IssueComment
	for pageURL := commentsURL; len(pageURL) > 0; {
		response, requestError := migrator.client.Do(executionContext, githubapi.Request{
			Operation: listCommentsOperationConstant,
			Method:    http.MethodGet,
			URL:       pageURL,
		})
		if requestError != nil {
			return nil, requestError
		}

		var page []*github.IssueComment
		if decodeError := response.DecodeJSON(listCommentsOperationConstant, &page); decodeError != nil {
			return nil, decodeError
		}
		comments = append(comments, page...)
		pageURL = response.NextURL
	}

	return comments, nil
}

// CopyIssue recreates issue in destinationOwner/destinationRepository with its
// title, body and labels, appends its comments in listed order, and closes the
// copy when the source issue is closed. It returns the new issue number.
func (migrator *Migrator) CopyIssue(executionContext context.Context, issue *github.Issue, destinationOwner string, destinationRepository string) (int, error) {
	if issue == nil {
		return 0, githubapi.InvalidInputError{FieldName: issueFieldNameConstant, Message: issueMissingMessageConstant}
	}

	labelNames := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labelNames = append(labelNames, label.GetName())
	}

	newIssueNumber, creationError := migrator.CreateIssue(executionContext, destinationOwner, destinationRepository, issue.GetTitle(), issue.GetBody(), labelNames)
	if creationError != nil {
		return 0, creationError
	}

	commentCount := 0
	if issue.GetComments() > 0 {
		comments, listError := migrator.ListComments(executionContext, issue.GetCommentsURL())
		if listError != nil {
			return newIssueNumber, fmt.Errorf(listCommentsErrorTemplateConstant, issue.GetNumber(), listError)
		}
		for _, comment := range comments {
			if commentError := migrator.CommentOnIssue(executionContext, destinationOwner, destinationRepository, newIssueNumber, comment.GetBody()); commentError != nil {
				return newIssueNumber, commentError
			}
		}
		commentCount = len(comments)
	}

	if issue.GetState() == closedStateConstant {
		if closeError := migrator.CloseIssue(executionContext, destinationOwner, destinationRepository, newIssueNumber); closeError != nil {
			return newIssueNumber, closeError
		}
	}

	migrator.logger.Info(
		issueCopiedMessageConstant,
		zap.Int(logFieldSourceNumberConstant, issue.GetNumber()),
		zap.Int(logFieldIssueNumberConstant, newIssueNumber),
		zap.Int(logFieldCommentCountConstant, commentCount),
	)
	return newIssueNumber, nil
}

// CopyAllIssues copies every open issue of the source repository, following
// next links until the listing is exhausted. Pull requests are skipped. It
// returns the new issue numbers in listing order.
func (migrator *Migrator) CopyAllIssues(executionContext context.Context, sourceOwner string, sourceRepository string, destinationOwner string, destinationRepository string) ([]int, error) {
	if validationError := requireRepository(sourceOwner, sourceRepository); validationError != nil {
		return nil, validationError
	}
	if validationError := requireRepository(destinationOwner, destinationRepository); validationError != nil {
		return nil, validationError
	}

	migrator.logger.Info(
		migrationStartedMessageConstant,
		zap.String(logFieldSourceConstant, sourceOwner+"/"+sourceRepository),
		zap.String(logFieldDestinationConstant, destinationOwner+"/"+destinationRepository),
	)

	copiedNumbers := []int{}
	request := githubapi.Request{
		Operation: listIssuesOperationConstant,
		Method:    http.MethodGet,
		URL:       migrator.client.Endpoint(reposPathSegmentConstant, sourceOwner, sourceRepository, issuesPathSegmentConstant),
		Query:     url.Values{stateQueryParameterConstant: []string{openStateConstant}},
	}

	for len(request.URL) > 0 {
		response, requestError := migrator.client.Do(executionContext, request)
		if requestError != nil {
			return copiedNumbers, fmt.Errorf(listIssuesErrorTemplateConstant, sourceOwner, sourceRepository, requestError)
		}

		var page []*github.Issue
		if decodeError := response.DecodeJSON(listIssuesOperationConstant, &page); decodeError != nil {
			return copiedNumbers, fmt.Errorf(listIssuesErrorTemplateConstant, sourceOwner, sourceRepository, decodeError)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				migrator.logger.Debug(pullRequestSkippedMessageConstant, zap.Int(logFieldSourceNumberConstant, issue.GetNumber()))
				continue
			}
			newIssueNumber, copyError := migrator.CopyIssue(executionContext, issue, destinationOwner, destinationRepository)
			if copyError != nil {
				return copiedNumbers, fmt.Errorf(copyIssueErrorTemplateConstant, issue.GetNumber(), copyError)
			}
			copiedNumbers = append(copiedNumbers, newIssueNumber)
		}

		request.URL = response.NextURL
		request.Query = nil
	}

	migrator.logger.Info(
		migrationCompletedMessageConstant,
		zap.String(logFieldSourceConstant, sourceOwner+"/"+sourceRepository),
		zap.String(logFieldDestinationConstant, destinationOwner+"/"+destinationRepository),
		zap.Int(logFieldIssueCountConstant, len(copiedNumbers)),
	)
	return copiedNumbers, nil
}

func requireRepository(owner string, repository string) error {
	if validationError := githubapi.RequireValue(ownerFieldNameConstant, owner); validationError != nil {
		return validationError
	}
	return githubapi.RequireValue(repositoryFieldNameConstant, repository)
}

func requireIssueAddress(owner string, repository string, issueNumber int) error {
	if validationError := requireRepository(owner, repository); validationError != nil {
		return validationError
	}
	if issueNumber <= 0 {
		return githubapi.InvalidInputError{FieldName: issueNumberFieldNameConstant, Message: issueNumberMessageConstant}
	}
	return nil
}
