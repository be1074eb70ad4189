package workflow

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	unsupportedOperationTemplateConstant = "unsupported workflow operation: %s"
	stepOptionsErrorTemplateConstant     = "workflow step %d (%s) has invalid options: %w"
	optionsDecoderErrorTemplateConstant  = "unable to construct options decoder: %w"
	optionNameKeyConstant                = "name"
	optionOwnerKeyConstant               = "owner"
	optionSourceOwnerKeyConstant         = "source_owner"
	optionSourceRepositoryKeyConstant    = "source_repository"
	optionDestinationOwnerKeyConstant    = "destination_owner"
	optionDestinationRepositoryConstant  = "destination_repository"
	mapstructureTagNameConstant          = "mapstructure"
)

// CreateRepositoryOptions configures a create-repository step.
type CreateRepositoryOptions struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// DeleteRepositoryOptions configures a delete-repository step.
type DeleteRepositoryOptions struct {
	Owner string `mapstructure:"owner"`
	Name  string `mapstructure:"name"`
}

// TransferOptions configures copy-tree and migrate-issues steps.
type TransferOptions struct {
	SourceOwner           string `mapstructure:"source_owner"`
	SourceRepository      string `mapstructure:"source_repository"`
	DestinationOwner      string `mapstructure:"destination_owner"`
	DestinationRepository string `mapstructure:"destination_repository"`
}

// BuildOperations converts the declarative configuration into executable operations.
func BuildOperations(configuration Configuration) ([]Operation, error) {
	operations := make([]Operation, 0, len(configuration.Steps))
	for stepIndex := range configuration.Steps {
		step := configuration.Steps[stepIndex]
		operation, buildError := buildOperationFromStep(step)
		if buildError != nil {
			return nil, fmt.Errorf(stepOptionsErrorTemplateConstant, stepIndex+1, step.Operation, buildError)
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func buildOperationFromStep(step StepConfiguration) (Operation, error) {
	switch step.Operation {
	case OperationTypeCreateRepository:
		var options CreateRepositoryOptions
		if decodeError := decodeOptions(step.Options, &options); decodeError != nil {
			return nil, decodeError
		}
		if validationError := githubapi.RequireValue(optionNameKeyConstant, options.Name); validationError != nil {
			return nil, validationError
		}
		return &CreateRepositoryOperation{Options: options}, nil
	case OperationTypeDeleteRepository:
		var options DeleteRepositoryOptions
		if decodeError := decodeOptions(step.Options, &options); decodeError != nil {
			return nil, decodeError
		}
		if validationError := githubapi.RequireValue(optionOwnerKeyConstant, options.Owner); validationError != nil {
			return nil, validationError
		}
		if validationError := githubapi.RequireValue(optionNameKeyConstant, options.Name); validationError != nil {
			return nil, validationError
		}
		return &DeleteRepositoryOperation{Options: options}, nil
	case OperationTypeCopyTree:
		options, decodeError := decodeTransferOptions(step.Options)
		if decodeError != nil {
			return nil, decodeError
		}
		return &CopyTreeOperation{Options: options}, nil
	case OperationTypeMigrateIssues:
		options, decodeError := decodeTransferOptions(step.Options)
		if decodeError != nil {
			return nil, decodeError
		}
		return &MigrateIssuesOperation{Options: options}, nil
	default:
		return nil, fmt.Errorf(unsupportedOperationTemplateConstant, step.Operation)
	}
}

func decodeTransferOptions(rawOptions map[string]any) (TransferOptions, error) {
	var options TransferOptions
	if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
		return TransferOptions{}, decodeError
	}

	requiredValues := []struct {
		key   string
		value string
	}{
		{key: optionSourceOwnerKeyConstant, value: options.SourceOwner},
		{key: optionSourceRepositoryKeyConstant, value: options.SourceRepository},
		{key: optionDestinationOwnerKeyConstant, value: options.DestinationOwner},
		{key: optionDestinationRepositoryConstant, value: options.DestinationRepository},
	}
	for _, requiredValue := range requiredValues {
		if validationError := githubapi.RequireValue(requiredValue.key, requiredValue.value); validationError != nil {
			return TransferOptions{}, validationError
		}
	}

	return options, nil
}

func decodeOptions(rawOptions map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          mapstructureTagNameConstant,
		Result:           target,
	})
	if decoderError != nil {
		return fmt.Errorf(optionsDecoderErrorTemplateConstant, decoderError)
	}
	return decoder.Decode(rawOptions)
}
