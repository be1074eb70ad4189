package workflow

import (
	"context"
	"errors"
	"fmt"
)

const (
	createRepositoryPlanTemplateConstant = "create repository %s"
	deleteRepositoryPlanTemplateConstant = "delete repository %s/%s"
	repositoryManagerMissingMessage      = "repository manager not configured"
	repositoryCreatedOutputTemplate      = "WORKFLOW-CREATE: %s\n"
	repositoryDeletedOutputTemplate      = "WORKFLOW-DELETE: %s/%s\n"
)

// CreateRepositoryOperation creates a repository for the authenticated account.
type CreateRepositoryOperation struct {
	Options CreateRepositoryOptions
}

// Name identifies the operation type.
func (operation *CreateRepositoryOperation) Name() string {
	return string(OperationTypeCreateRepository)
}

// Describe summarizes the planned change.
func (operation *CreateRepositoryOperation) Describe() string {
	return fmt.Sprintf(createRepositoryPlanTemplateConstant, operation.Options.Name)
}

// Execute creates the configured repository.
func (operation *CreateRepositoryOperation) Execute(executionContext context.Context, environment *Environment) error {
	if environment == nil || environment.Repositories == nil {
		return errors.New(repositoryManagerMissingMessage)
	}
	if creationError := environment.Repositories.CreateRepository(executionContext, operation.Options.Name, operation.Options.Description); creationError != nil {
		return creationError
	}
	if environment.Output != nil {
		fmt.Fprintf(environment.Output, repositoryCreatedOutputTemplate, operation.Options.Name)
	}
	return nil
}

// DeleteRepositoryOperation deletes a repository.
type DeleteRepositoryOperation struct {
	Options DeleteRepositoryOptions
}

// Name identifies the operation type.
func (operation *DeleteRepositoryOperation) Name() string {
	return string(OperationTypeDeleteRepository)
}

// Describe summarizes the planned change.
func (operation *DeleteRepositoryOperation) Describe() string {
	return fmt.Sprintf(deleteRepositoryPlanTemplateConstant, operation.Options.Owner, operation.Options.Name)
}

// Execute deletes the configured repository.
func (operation *DeleteRepositoryOperation) Execute(executionContext context.Context, environment *Environment) error {
	if environment == nil || environment.Repositories == nil {
		return errors.New(repositoryManagerMissingMessage)
	}
	if deletionError := environment.Repositories.DeleteRepository(executionContext, operation.Options.Owner, operation.Options.Name); deletionError != nil {
		return deletionError
	}
	if environment.Output != nil {
		fmt.Fprintf(environment.Output, repositoryDeletedOutputTemplate, operation.Options.Owner, operation.Options.Name)
	}
	return nil
}
