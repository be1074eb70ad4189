package workflow

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	workflowExecutionErrorTemplateConstant = "workflow operation %s failed: %w"
	workflowPlanOutputTemplateConstant     = "WORKFLOW-PLAN: %s\n"
	workflowStepPlannedMessageConstant     = "Workflow step planned"
	workflowStepStartedMessageConstant     = "Workflow step started"
	workflowStepCompletedMessageConstant   = "Workflow step completed"
	workflowCompletedMessageConstant       = "Workflow completed"
	logFieldOperationConstant              = "operation"
	logFieldStepConstant                   = "step"
	logFieldDescriptionConstant            = "description"
	logFieldStepCountConstant              = "steps"
	logFieldDryRunConstant                 = "dry_run"
)

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger        *zap.Logger
	Repositories  RepositoryManager
	TreeCopier    TreeCopier
	IssueMigrator IssueMigrator
	Output        io.Writer
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun bool
}

// Executor coordinates workflow operation execution.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute runs the operations in order and stops at the first failure. In dry-run
// mode each step is only reported.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) error {
	logger := executor.dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	environment := &Environment{
		Repositories:  executor.dependencies.Repositories,
		TreeCopier:    executor.dependencies.TreeCopier,
		IssueMigrator: executor.dependencies.IssueMigrator,
		Output:        executor.dependencies.Output,
		Logger:        logger,
	}

	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}

		stepFields := []zap.Field{
			zap.Int(logFieldStepConstant, operationIndex+1),
			zap.String(logFieldOperationConstant, operation.Name()),
			zap.String(logFieldDescriptionConstant, operation.Describe()),
		}

		if runtimeOptions.DryRun {
			logger.Info(workflowStepPlannedMessageConstant, stepFields...)
			if environment.Output != nil {
				fmt.Fprintf(environment.Output, workflowPlanOutputTemplateConstant, operation.Describe())
			}
			continue
		}

		if contextError := executionContext.Err(); contextError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), contextError)
		}

		logger.Info(workflowStepStartedMessageConstant, stepFields...)
		if executeError := operation.Execute(executionContext, environment); executeError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executeError)
		}
		logger.Info(workflowStepCompletedMessageConstant, stepFields...)
	}

	logger.Info(
		workflowCompletedMessageConstant,
		zap.Int(logFieldStepCountConstant, len(executor.operations)),
		zap.Bool(logFieldDryRunConstant, runtimeOptions.DryRun),
	)
	return nil
}
