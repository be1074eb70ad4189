package workflow

import (
	"context"
	"errors"
	"fmt"
)

const (
	copyTreePlanTemplateConstant      = "copy tree %s/%s -> %s/%s"
	migrateIssuesPlanTemplateConstant = "migrate issues %s/%s -> %s/%s"
	treeCopierMissingMessage          = "tree copier not configured"
	issueMigratorMissingMessage       = "issue migrator not configured"
	treeCopiedOutputTemplate          = "WORKFLOW-COPY: %d files %s/%s -> %s/%s\n"
	issuesMigratedOutputTemplate      = "WORKFLOW-ISSUES: %d issues %s/%s -> %s/%s\n"
)

// CopyTreeOperation copies every file of the source repository into the destination.
type CopyTreeOperation struct {
	Options TransferOptions
}

// Name identifies the operation type.
func (operation *CopyTreeOperation) Name() string {
	return string(OperationTypeCopyTree)
}

// Describe summarizes the planned change.
func (operation *CopyTreeOperation) Describe() string {
	return operation.Options.describe(copyTreePlanTemplateConstant)
}

// Execute copies the tree.
func (operation *CopyTreeOperation) Execute(executionContext context.Context, environment *Environment) error {
	if environment == nil || environment.TreeCopier == nil {
		return errors.New(treeCopierMissingMessage)
	}
	options := operation.Options
	result, copyError := environment.TreeCopier.CopyTree(executionContext, options.SourceOwner, options.SourceRepository, options.DestinationOwner, options.DestinationRepository)
	if copyError != nil {
		return copyError
	}
	if environment.Output != nil {
		fmt.Fprintf(environment.Output, treeCopiedOutputTemplate, len(result.CopiedFiles), options.SourceOwner, options.SourceRepository, options.DestinationOwner, options.DestinationRepository)
	}
	return nil
}

// MigrateIssuesOperation copies open issues of the source repository into the destination.
type MigrateIssuesOperation struct {
	Options TransferOptions
}

// Name identifies the operation type.
func (operation *MigrateIssuesOperation) Name() string {
	return string(OperationTypeMigrateIssues)
}

// Describe summarizes the planned change.
func (operation *MigrateIssuesOperation) Describe() string {
	return operation.Options.describe(migrateIssuesPlanTemplateConstant)
}

// Execute migrates the issues.
func (operation *MigrateIssuesOperation) Execute(executionContext context.Context, environment *Environment) error {
	if environment == nil || environment.IssueMigrator == nil {
		return errors.New(issueMigratorMissingMessage)
	}
	options := operation.Options
	copiedNumbers, migrationError := environment.IssueMigrator.CopyAllIssues(executionContext, options.SourceOwner, options.SourceRepository, options.DestinationOwner, options.DestinationRepository)
	if migrationError != nil {
		return migrationError
	}
	if environment.Output != nil {
		fmt.Fprintf(environment.Output, issuesMigratedOutputTemplate, len(copiedNumbers), options.SourceOwner, options.SourceRepository, options.DestinationOwner, options.DestinationRepository)
	}
	return nil
}

func (options TransferOptions) describe(template string) string {
	return fmt.Sprintf(template, options.SourceOwner, options.SourceRepository, options.DestinationOwner, options.DestinationRepository)
}
