package treecopy

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v72/github"
	"go.uber.org/zap"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	reposPathSegmentConstant            = "repos"
	contentsPathSegmentConstant         = "contents"
	treePathSeparatorConstant           = "/"
	commitMessageTemplateConstant       = "Adding %s from %s/%s"
	listFailureTemplateConstant         = "unable to list %s/%s at %q: %w"
	fetchFailureTemplateConstant        = "unable to fetch %s/%s file %q: %w"
	uploadFailureTemplateConstant       = "unable to upload %q to %s/%s: %w"
	sourceOwnerFieldNameConstant        = "source_owner"
	sourceRepositoryFieldNameConstant   = "source_repository"
	destinationOwnerFieldNameConstant   = "destination_owner"
	destinationRepoFieldNameConstant    = "destination_repository"
	copyStartedMessageConstant          = "Copying repository tree"
	fileCopiedMessageConstant           = "Copied file"
	copyCompletedMessageConstant        = "Repository tree copied"
	skippedEntryMessageConstant         = "Skipping unrecognized listing entry"
	unsupportedItemMessageConstant      = "Skipping unsupported listing item"
	logFieldTypeConstant                = "type"
	logFieldSourceConstant              = "source"
	logFieldDestinationConstant         = "destination"
	logFieldPathConstant                = "path"
	logFieldEntryConstant               = "entry"
	logFieldFileCountConstant           = "files"
	listContentsOperationConstant       = githubapi.OperationName("ListContents")
	fetchRawContentOperationConstant    = githubapi.OperationName("FetchRawContent")
	createFileContentsOperationConstant = githubapi.OperationName("CreateFileContents")
)

// RemoteClient is the subset of githubapi.Client used by Copier.
type RemoteClient interface {
	Endpoint(segments ...string) string
	Do(executionContext context.Context, request githubapi.Request) (githubapi.Response, error)
}

// Options tunes listing handling.
type Options struct {
	// StrictEntries rejects bare string listing entries instead of skipping them.
	StrictEntries bool
}

// CopyResult reports the destination paths written, in copy order.
type CopyResult struct {
	CopiedFiles []string
}

// Copier copies repository trees.
type Copier struct {
	client  RemoteClient
	logger  *zap.Logger
	options Options
}

// NewCopier constructs a Copier.
func NewCopier(client RemoteClient, logger *zap.Logger, options Options) *Copier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{client: client, logger: logger, options: options}
}

// CopyTree walks the source repository depth-first and creates every file at the
// same relative path in the destination repository. The first failure aborts the
// copy; files written before it remain in the destination.
func (copier *Copier) CopyTree(executionContext context.Context, sourceOwner string, sourceRepository string, destinationOwner string, destinationRepository string) (CopyResult, error) {
	requiredValues := []struct {
		fieldName string
		value     string
	}{
		{fieldName: sourceOwnerFieldNameConstant, value: sourceOwner},
		{fieldName: sourceRepositoryFieldNameConstant, value: sourceRepository},
		{fieldName: destinationOwnerFieldNameConstant, value: destinationOwner},
		{fieldName: destinationRepoFieldNameConstant, value: destinationRepository},
	}
	for _, requiredValue := range requiredValues {
		if validationError := githubapi.RequireValue(requiredValue.fieldName, requiredValue.value); validationError != nil {
			return CopyResult{}, validationError
		}
	}

	source := githubapi.RepositoryIdentifier{Owner: sourceOwner, Name: sourceRepository}
	destination := githubapi.RepositoryIdentifier{Owner: destinationOwner, Name: destinationRepository}

	copier.logger.Info(
		copyStartedMessageConstant,
		zap.String(logFieldSourceConstant, source.String()),
		zap.String(logFieldDestinationConstant, destination.String()),
	)

	result := CopyResult{}
	if copyError := copier.copyDirectory(executionContext, source, destination, "", &result); copyError != nil {
		return result, copyError
	}

	copier.logger.Info(
		copyCompletedMessageConstant,
		zap.String(logFieldSourceConstant, source.String()),
		zap.String(logFieldDestinationConstant, destination.String()),
		zap.Int(logFieldFileCountConstant, len(result.CopiedFiles)),
	)
	return result, nil
}

func (copier *Copier) copyDirectory(executionContext context.Context, source githubapi.RepositoryIdentifier, destination githubapi.RepositoryIdentifier, directoryPath string, result *CopyResult) error {
	response, listError := copier.client.Do(executionContext, githubapi.Request{
		Operation: listContentsOperationConstant,
		Method:    http.MethodGet,
		URL:       copier.contentsEndpoint(source, directoryPath),
	})
	if listError != nil {
		return fmt.Errorf(listFailureTemplateConstant, source.Owner, source.Name, directoryPath, listError)
	}

	listing, decodeError := githubapi.DecodeTreeListing(listContentsOperationConstant, response.Body, copier.options.StrictEntries)
	if decodeError != nil {
		return fmt.Errorf(listFailureTemplateConstant, source.Owner, source.Name, directoryPath, decodeError)
	}

	for _, skippedEntry := range listing.SkippedEntries {
		copier.logger.Warn(
			skippedEntryMessageConstant,
			zap.String(logFieldSourceConstant, source.String()),
			zap.String(logFieldPathConstant, directoryPath),
			zap.String(logFieldEntryConstant, skippedEntry),
		)
	}

	for _, unsupported := range listing.UnsupportedItems {
		copier.logger.Warn(
			unsupportedItemMessageConstant,
			zap.String(logFieldSourceConstant, source.String()),
			zap.String(logFieldPathConstant, unsupported.Path),
			zap.String(logFieldTypeConstant, unsupported.Type),
		)
	}

	for _, item := range listing.Items {
		switch typedItem := item.(type) {
		case githubapi.DirectoryItem:
			if copyError := copier.copyDirectory(executionContext, source, destination, typedItem.Path, result); copyError != nil {
				return copyError
			}
		case githubapi.FileItem:
			if copyError := copier.copyFile(executionContext, source, destination, typedItem); copyError != nil {
				return copyError
			}
			result.CopiedFiles = append(result.CopiedFiles, typedItem.Path)
		}
	}

	return nil
}

func (copier *Copier) copyFile(executionContext context.Context, source githubapi.RepositoryIdentifier, destination githubapi.RepositoryIdentifier, item githubapi.FileItem) error {
	rawResponse, fetchError := copier.client.Do(executionContext, githubapi.Request{
		Operation:  fetchRawContentOperationConstant,
		Method:     http.MethodGet,
		URL:        item.DownloadURL,
		RawContent: true,
	})
	if fetchError != nil {
		return fmt.Errorf(fetchFailureTemplateConstant, source.Owner, source.Name, item.Path, fetchError)
	}

	payload := &github.RepositoryContentFileOptions{
		Message: github.Ptr(fmt.Sprintf(commitMessageTemplateConstant, item.Path, source.Owner, source.Name)),
		Content: rawResponse.Body,
	}

	_, uploadError := copier.client.Do(executionContext, githubapi.Request{
		Operation:      createFileContentsOperationConstant,
		Method:         http.MethodPut,
		URL:            copier.contentsEndpoint(destination, item.Path),
		Payload:        payload,
		ExpectedStatus: http.StatusCreated,
	})
	if uploadError != nil {
		return fmt.Errorf(uploadFailureTemplateConstant, item.Path, destination.Owner, destination.Name, uploadError)
	}

	copier.logger.Info(
		fileCopiedMessageConstant,
		zap.String(logFieldPathConstant, item.Path),
		zap.String(logFieldDestinationConstant, destination.String()),
	)
	return nil
}

func (copier *Copier) contentsEndpoint(repository githubapi.RepositoryIdentifier, itemPath string) string {
	segments := []string{reposPathSegmentConstant, repository.Owner, repository.Name, contentsPathSegmentConstant}
	segments = append(segments, strings.Split(itemPath, treePathSeparatorConstant)...)
	return copier.client.Endpoint(segments...)
}
