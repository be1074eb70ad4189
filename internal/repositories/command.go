package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	createCommandUseConstant              = "repo-create"
	createCommandShortDescriptionConstant = "Create a repository for the authenticated account"
	createCommandLongDescriptionConstant  = "repo-create creates a public template repository with issues enabled and every merge strategy allowed."
	deleteCommandUseConstant              = "repo-delete"
	deleteCommandShortDescriptionConstant = "Delete a repository"
	deleteCommandLongDescriptionConstant  = "repo-delete permanently deletes the repository identified by --owner and --name."
	nameFlagNameConstant                  = "name"
	nameFlagUsageConstant                 = "Repository name"
	descriptionFlagNameConstant           = "description"
	descriptionFlagUsageConstant          = "Repository description"
	ownerFlagNameConstant                 = "owner"
	ownerFlagUsageConstant                = "Repository owner"
	clientProviderMissingMessageConstant  = "GitHub client provider not configured"
	createCommandErrorTemplateConstant    = "repository creation failed: %w"
	deleteCommandErrorTemplateConstant    = "repository deletion failed: %w"
	clientResolutionErrorTemplateConstant = "unable to construct GitHub client: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ClientProvider constructs the remote client for a command execution.
type ClientProvider func(executionContext context.Context) (RemoteClient, error)

// CreateCommandBuilder assembles the repo-create command.
type CreateCommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientProvider ClientProvider
}

// Build constructs the repo-create command.
func (builder *CreateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           createCommandUseConstant,
		Short:         createCommandShortDescriptionConstant,
		Long:          createCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(nameFlagNameConstant, "", nameFlagUsageConstant)
	command.Flags().String(descriptionFlagNameConstant, "", descriptionFlagUsageConstant)

	return command, nil
}

func (builder *CreateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	nameValue, _ := command.Flags().GetString(nameFlagNameConstant)
	descriptionValue, _ := command.Flags().GetString(descriptionFlagNameConstant)

	manager, managerError := resolveManager(command.Context(), builder.ClientProvider, builder.LoggerProvider)
	if managerError != nil {
		return managerError
	}

	if creationError := manager.CreateRepository(command.Context(), strings.TrimSpace(nameValue), descriptionValue); creationError != nil {
		return fmt.Errorf(createCommandErrorTemplateConstant, creationError)
	}

	return nil
}

// DeleteCommandBuilder assembles the repo-delete command.
type DeleteCommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientProvider ClientProvider
}

// Build constructs the repo-delete command.
func (builder *DeleteCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           deleteCommandUseConstant,
		Short:         deleteCommandShortDescriptionConstant,
		Long:          deleteCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(ownerFlagNameConstant, "", ownerFlagUsageConstant)
	command.Flags().String(nameFlagNameConstant, "", nameFlagUsageConstant)

	return command, nil
}

func (builder *DeleteCommandBuilder) run(command *cobra.Command, arguments []string) error {
	ownerValue, _ := command.Flags().GetString(ownerFlagNameConstant)
	nameValue, _ := command.Flags().GetString(nameFlagNameConstant)

	manager, managerError := resolveManager(command.Context(), builder.ClientProvider, builder.LoggerProvider)
	if managerError != nil {
		return managerError
	}

	if deletionError := manager.DeleteRepository(command.Context(), strings.TrimSpace(ownerValue), strings.TrimSpace(nameValue)); deletionError != nil {
		return fmt.Errorf(deleteCommandErrorTemplateConstant, deletionError)
	}

	return nil
}

func resolveManager(executionContext context.Context, clientProvider ClientProvider, loggerProvider LoggerProvider) (*Manager, error) {
	if clientProvider == nil {
		return nil, errors.New(clientProviderMissingMessageConstant)
	}

	client, clientError := clientProvider(executionContext)
	if clientError != nil {
		return nil, fmt.Errorf(clientResolutionErrorTemplateConstant, clientError)
	}

	return NewManager(client, resolveLogger(loggerProvider)), nil
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
