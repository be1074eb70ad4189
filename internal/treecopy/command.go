package treecopy

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	commandUseConstant                    = "repo-copy"
	commandShortDescriptionConstant       = "Copy every file of one repository into another"
	commandLongDescriptionConstant        = "repo-copy walks the source repository tree and creates each file at the same path in the destination repository, one commit per file."
	sourceFlagNameConstant                = "source"
	sourceFlagUsageConstant               = "Source repository as owner/name"
	destinationFlagNameConstant           = "destination"
	destinationFlagUsageConstant          = "Destination repository as owner/name"
	strictFlagNameConstant                = "strict"
	strictFlagUsageConstant               = "Fail on unrecognized listing entries instead of skipping them"
	clientProviderMissingMessageConstant  = "GitHub client provider not configured"
	clientResolutionErrorTemplateConstant = "unable to construct GitHub client: %w"
	copyCommandErrorTemplateConstant      = "repository copy failed: %w"
	copyResultMessageConstant             = "copied %d files from %s to %s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ClientProvider constructs the remote client for a command execution.
type ClientProvider func(executionContext context.Context) (RemoteClient, error)

// CommandBuilder assembles the repo-copy command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientProvider ClientProvider
}

// Build constructs the repo-copy command.
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
	command.Flags().Bool(strictFlagNameConstant, false, strictFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	sourceValue, _ := command.Flags().GetString(sourceFlagNameConstant)
	destinationValue, _ := command.Flags().GetString(destinationFlagNameConstant)
	strictEntries, _ := command.Flags().GetBool(strictFlagNameConstant)

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

	copier := NewCopier(client, builder.resolveLogger(), Options{StrictEntries: strictEntries})
	result, copyError := copier.CopyTree(command.Context(), source.Owner, source.Name, destination.Owner, destination.Name)
	if copyError != nil {
		return fmt.Errorf(copyCommandErrorTemplateConstant, copyError)
	}

	fmt.Fprintf(command.OutOrStdout(), copyResultMessageConstant, len(result.CopiedFiles), source, destination)
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
