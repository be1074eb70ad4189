package issues

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	commandUseConstant                    = "issues-migrate"
	commandShortDescriptionConstant       = "Copy open issues with their comments into another repository"
	commandLongDescriptionConstant        = "issues-migrate recreates every open issue of the source repository in the destination repository, including labels and comment bodies."
	sourceFlagNameConstant                = "source"
	sourceFlagUsageConstant               = "Source repository as owner/name"
	destinationFlagNameConstant           = "destination"
	destinationFlagUsageConstant          = "Destination repository as owner/name"
	clientProviderMissingMessageConstant  = "GitHub client provider not configured"
	clientResolutionErrorTemplateConstant = "unable to construct GitHub client: %w"
	migrateCommandErrorTemplateConstant   = "issue migration failed: %w"
	migrationResultTemplateConstant       = "migrated %d issues from %s to %s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ClientProvider constructs the remote client for a command execution.
type ClientProvider func(executionContext context.Context) (RemoteClient, error)

// CommandBuilder assembles the issues-migrate command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientProvider ClientProvider
}

// Build constructs the issues-migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(sourceFlagNameConstant, "", sourceFlagUsageConstant)
	command.Flags().String(destinationFlagNameConstant, "", destinationFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	sourceValue, _ := command.Flags().GetString(sourceFlagNameConstant)
	destinationValue, _ := command.Flags().GetString(destinationFlagNameConstant)

	source, sourceError := githubapi.ParseRepositoryIdentifier(sourceFlagNameConstant, sourceValue)
	if sourceError != nil {
		return sourceError
	}
	destination, destinationError := githubapi.ParseRepositoryIdentifier(destinationFlagNameConstant, destinationValue)
	if destinationError != nil {
		return destinationError
	}

	if builder.ClientProvider == nil {
		return errors.New(clientProviderMissingMessageConstant)
	}
	client, clientError := builder.ClientProvider(command.Context())
	if clientError != nil {
		return fmt.Errorf(clientResolutionErrorTemplateConstant, clientError)
	}

	migrator := NewMigrator(client, builder.resolveLogger())
	copiedNumbers, migrationError := migrator.CopyAllIssues(command.Context(), source.Owner, source.Name, destination.Owner, destination.Name)
	if migrationError != nil {
		return fmt.Errorf(migrateCommandErrorTemplateConstant, migrationError)
	}

	fmt.Fprintf(command.OutOrStdout(), migrationResultTemplateConstant, len(copiedNumbers), source, destination)
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
