package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitcreator/internal/issues"
	"github.com/temirov/gitcreator/internal/repositories"
	"github.com/temirov/gitcreator/internal/treecopy"
	"github.com/temirov/gitcreator/internal/workflow"
)

const (
	commandUseConstant                       = "workflow [workflow]"
	commandShortDescriptionConstant          = "Run a workflow configuration file"
	commandLongDescriptionConstant           = "workflow executes the repository, tree copy and issue migration steps defined in a YAML or JSON configuration file, in order."
	dryRunFlagNameConstant                   = "dry-run"
	dryRunFlagDescriptionConstant            = "Preview workflow operations without making changes"
	strictFlagNameConstant                   = "strict"
	strictFlagDescriptionConstant            = "Fail copy-tree steps on unrecognized listing entries"
	configurationPathRequiredMessageConstant = "workflow configuration path required; provide a positional argument"
	clientProviderMissingMessageConstant     = "GitHub client provider not configured"
	loadConfigurationErrorTemplateConstant   = "unable to load workflow configuration: %w"
	buildOperationsErrorTemplateConstant     = "unable to build workflow operations: %w"
	gitHubClientErrorTemplateConstant        = "unable to construct GitHub client: %w"
)

// CommandBuilder assembles the workflow command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ClientProvider        ClientProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the workflow command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          builder.run,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	command.Flags().Bool(strictFlagNameConstant, false, strictFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configurationPath := ""
	if len(arguments) > 0 {
		configurationPath = strings.TrimSpace(arguments[0])
	}
	if len(configurationPath) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errors.New(configurationPathRequiredMessageConstant)
	}

	workflowConfiguration, configurationError := workflow.LoadConfiguration(configurationPath)
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, configurationError)
	}

	operations, operationsError := workflow.BuildOperations(workflowConfiguration)
	if operationsError != nil {
		return fmt.Errorf(buildOperationsErrorTemplateConstant, operationsError)
	}

	commandConfiguration := builder.resolveConfiguration()
	dryRun := commandConfiguration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
	}
	strictEntries, _ := command.Flags().GetBool(strictFlagNameConstant)

	logger := resolveLogger(builder.LoggerProvider)
	workflowDependencies := workflow.Dependencies{
		Logger: logger,
		Output: command.OutOrStdout(),
	}

	if !dryRun {
		if builder.ClientProvider == nil {
			return errors.New(clientProviderMissingMessageConstant)
		}
		client, clientError := builder.ClientProvider(command.Context())
		if clientError != nil {
			return fmt.Errorf(gitHubClientErrorTemplateConstant, clientError)
		}
		workflowDependencies.Repositories = repositories.NewManager(client, logger)
		workflowDependencies.TreeCopier = treecopy.NewCopier(client, logger, treecopy.Options{StrictEntries: strictEntries})
		workflowDependencies.IssueMigrator = issues.NewMigrator(client, logger)
	}

	executor := workflow.NewExecutor(operations, workflowDependencies)
	return executor.Execute(command.Context(), workflow.RuntimeOptions{DryRun: dryRun})
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}
