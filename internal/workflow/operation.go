package workflow

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/treecopy"
)

// Operation coordinates a single workflow step.
type Operation interface {
	Name() string
	Describe() string
	Execute(executionContext context.Context, environment *Environment) error
}

// RepositoryManager creates and deletes repositories.
type RepositoryManager interface {
	CreateRepository(executionContext context.Context, name string, description string) error
	DeleteRepository(executionContext context.Context, owner string, name string) error
}

// TreeCopier copies repository trees.
type TreeCopier interface {
	CopyTree(executionContext context.Context, sourceOwner string, sourceRepository string, destinationOwner string, destinationRepository string) (treecopy.CopyResult, error)
}

// IssueMigrator copies open issues between repositories.
type IssueMigrator interface {
	CopyAllIssues(executionContext context.Context, sourceOwner string, sourceRepository string, destinationOwner string, destinationRepository string) ([]int, error)
}

// Environment exposes shared dependencies for workflow operations.
type Environment struct {
	Repositories  RepositoryManager
	TreeCopier    TreeCopier
	IssueMigrator IssueMigrator
	Output        io.Writer
	Logger        *zap.Logger
}
