package repositories

import (
	"context"
	"net/http"

	"github.com/google/go-github/v72/github"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	userPathSegmentConstant               = "user"
	reposPathSegmentConstant              = "repos"
	repositoryNameFieldNameConstant       = "name"
	repositoryOwnerFieldNameConstant      = "owner"
	creatingRepositoryMessageConstant     = "Creating repository"
	repositoryCreatedMessageConstant      = "Repository created"
	repositoryDeletedMessageConstant      = "Repository deleted"
	logFieldRepositoryNameConstant        = "repository"
	logFieldRepositoryOwnerConstant       = "owner"
	logFieldRepositoryDescriptionConstant = "description"
	createRepositoryOperationConstant     = githubapi.OperationName("CreateRepository")
	deleteRepositoryOperationConstant     = githubapi.OperationName("DeleteRepository")
)

// RemoteClient is the subset of githubapi.Client used by Manager.
type RemoteClient interface {
	Endpoint(segments ...string) string
	Do(executionContext context.Context, request githubapi.Request) (githubapi.Response, error)
}

// Manager creates and deletes repositories.
type Manager struct {
	client RemoteClient
	logger *zap.Logger
}

// NewManager constructs a Manager.
func NewManager(client RemoteClient, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{client: client, logger: logger}
}

// CreateRepository creates a public template repository for the authenticated
// account with issues enabled, wiki and projects disabled, all merge
// strategies allowed and automatic branch deletion off.
func (manager *Manager) CreateRepository(executionContext context.Context, name string, description string) error {
	if validationError := githubapi.RequireValue(repositoryNameFieldNameConstant, name); validationError != nil {
		return validationError
	}

	payload := &github.Repository{
		Name:                github.Ptr(name),
		Description:         github.Ptr(description),
		Private:             github.Ptr(false),
		HasIssues:           github.Ptr(true),
		HasProjects:         github.Ptr(false),
		HasWiki:             github.Ptr(false),
		IsTemplate:          github.Ptr(true),
		AllowSquashMerge:    github.Ptr(true),
		AllowMergeCommit:    github.Ptr(true),
		AllowRebaseMerge:    github.Ptr(true),
		DeleteBranchOnMerge: github.Ptr(false),
	}

	manager.logger.Info(
		creatingRepositoryMessageConstant,
		zap.String(logFieldRepositoryNameConstant, name),
		zap.String(logFieldRepositoryDescriptionConstant, description),
	)

	_, requestError := manager.client.Do(executionContext, githubapi.Request{
		Operation:      createRepositoryOperationConstant,
		Method:         http.MethodPost,
		URL:            manager.client.Endpoint(userPathSegmentConstant, reposPathSegmentConstant),
		Payload:        payload,
		ExpectedStatus: http.StatusCreated,
	})
	if requestError != nil {
		return requestError
	}

	manager.logger.Info(repositoryCreatedMessageConstant, zap.String(logFieldRepositoryNameConstant, name))
	return nil
}

// DeleteRepository deletes owner/name.
func (manager *Manager) DeleteRepository(executionContext context.Context, owner string, name string) error {
	if validationError := githubapi.RequireValue(repositoryOwnerFieldNameConstant, owner); validationError != nil {
		return validationError
	}
	if validationError := githubapi.RequireValue(repositoryNameFieldNameConstant, name); validationError != nil {
		return validationError
	}

	_, requestError := manager.client.Do(executionContext, githubapi.Request{
		Operation:      deleteRepositoryOperationConstant,
		Method:         http.MethodDelete,
		URL:            manager.client.Endpoint(reposPathSegmentConstant, owner, name),
		ExpectedStatus: http.StatusNoContent,
	})
	if requestError != nil {
		return requestError
	}

	manager.logger.Info(
		repositoryDeletedMessageConstant,
		zap.String(logFieldRepositoryOwnerConstant, owner),
		zap.String(logFieldRepositoryNameConstant, name),
	)
	return nil
}
