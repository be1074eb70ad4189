package githubauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
)

const (
	tokenSourceSeparatorConstant               = ":"
	environmentTokenSourceTypeValueConstant    = "env"
	fileTokenSourceTypeValueConstant           = "file"
	homeDirectoryShortcutConstant              = "~"
	homeDirectoryPrefixConstant                = "~/"
	tokenSourceMissingErrorMessageConstant     = "token source must be provided"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "token file path must be provided"
	credentialMissingErrorMessageConstant      = "no GitHub token found; set GH_TOKEN, GITHUB_TOKEN, or configure a token source"
	environmentTokenMissingTemplateConstant    = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read token file %s: %w"
	fileTokenEmptyErrorTemplateConstant        = "token file %s is empty"
	unsupportedTokenSourceTemplateConstant     = "unsupported token source type %q"
)

// TokenSourceType enumerates the supported token retrieval mechanisms.
type TokenSourceType string

// Token source type enumerations.
const (
	TokenSourceTypeEnvironment TokenSourceType = TokenSourceType(environmentTokenSourceTypeValueConstant)
	TokenSourceTypeFile        TokenSourceType = TokenSourceType(fileTokenSourceTypeValueConstant)
)

// ErrCredentialNotFound indicates neither the declared source nor the standard variables held a token.
var ErrCredentialNotFound = errors.New(credentialMissingErrorMessageConstant)

// TokenSourceConfiguration specifies how to locate a credentials token.
type TokenSourceConfiguration struct {
	Type      TokenSourceType
	Reference string
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// Resolver retrieves tokens from configured sources.
type Resolver struct {
	environmentLookup     EnvironmentLookup
	fileReader            FileReader
	homeDirectoryProvider HomeDirectoryProvider
}

// NewResolver creates a resolver; nil collaborators fall back to the operating system.
func NewResolver(environmentLookup EnvironmentLookup, fileReader FileReader, homeDirectoryProvider HomeDirectoryProvider) *Resolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	return &Resolver{
		environmentLookup:     environmentLookup,
		fileReader:            fileReader,
		homeDirectoryProvider: homeDirectoryProvider,
	}
}

// ParseTokenSource interprets textual token source declarations. A value
// without a type prefix names an environment variable.
func ParseTokenSource(sourceValue string) (TokenSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSourceConfiguration{}, errors.New(tokenSourceMissingErrorMessageConstant)
	}

	sourceType, reference, hasType := strings.Cut(trimmedValue, tokenSourceSeparatorConstant)
	if !hasType {
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType = strings.ToLower(strings.TrimSpace(sourceType))
	reference = strings.TrimSpace(reference)

	switch sourceType {
	case environmentTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: reference}, nil
	case fileTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return TokenSourceConfiguration{Type: TokenSourceTypeFile, Reference: reference}, nil
	default:
		return TokenSourceConfiguration{}, fmt.Errorf(unsupportedTokenSourceTemplateConstant, sourceType)
	}
}

// ResolveToken reads the token named by source.
func (resolver *Resolver) ResolveToken(resolutionContext context.Context, source TokenSourceConfiguration) (string, error) {
	if contextError := resolutionContext.Err(); contextError != nil {
		return "", contextError
	}

	switch source.Type {
	case TokenSourceTypeEnvironment:
		value, found := resolver.environmentLookup(source.Reference)
		trimmedValue := strings.TrimSpace(value)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentTokenMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case TokenSourceTypeFile:
		tokenFilePath := resolver.expandHome(source.Reference)
		contents, readError := resolver.fileReader(tokenFilePath)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, tokenFilePath, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileTokenEmptyErrorTemplateConstant, tokenFilePath)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedTokenSourceTemplateConstant, source.Type)
	}
}

// ResolveTokenSource parses sourceValue and resolves it into an oauth2.TokenSource.
// An empty sourceValue falls back to the standard GitHub environment variables.
func (resolver *Resolver) ResolveTokenSource(resolutionContext context.Context, sourceValue string) (oauth2.TokenSource, error) {
	if len(strings.TrimSpace(sourceValue)) == 0 {
		for _, key := range tokenPreference {
			if value, found := resolver.environmentLookup(key); found && len(strings.TrimSpace(value)) > 0 {
				return NewTokenSource(value), nil
			}
		}
		return nil, ErrCredentialNotFound
	}

	source, parseError := ParseTokenSource(sourceValue)
	if parseError != nil {
		return nil, parseError
	}

	token, resolveError := resolver.ResolveToken(resolutionContext, source)
	if resolveError != nil {
		return nil, resolveError
	}

	return NewTokenSource(token), nil
}

func (resolver *Resolver) expandHome(candidatePath string) string {
	if candidatePath != homeDirectoryShortcutConstant && !strings.HasPrefix(candidatePath, homeDirectoryPrefixConstant) {
		return candidatePath
	}
	homeDirectory, homeError := resolver.homeDirectoryProvider()
	if homeError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	if candidatePath == homeDirectoryShortcutConstant {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, homeDirectoryPrefixConstant))
}
