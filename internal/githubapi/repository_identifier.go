package githubapi

import (
	"fmt"
	"strings"
)

const (
	repositoryIdentifierSeparatorConstant = "/"
	repositoryIdentifierFormatConstant    = "%s/%s"
	repositoryIdentifierMessageConstant   = "expected owner/name"
)

// RepositoryIdentifier addresses a repository by owner and name.
type RepositoryIdentifier struct {
	Owner string
	Name  string
}

// String renders the identifier as owner/name.
func (identifier RepositoryIdentifier) String() string {
	return fmt.Sprintf(repositoryIdentifierFormatConstant, identifier.Owner, identifier.Name)
}

// ParseRepositoryIdentifier parses an owner/name pair.
func ParseRepositoryIdentifier(fieldName string, value string) (RepositoryIdentifier, error) {
	owner, name, found := strings.Cut(strings.TrimSpace(value), repositoryIdentifierSeparatorConstant)
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if !found || len(owner) == 0 || len(name) == 0 || strings.Contains(name, repositoryIdentifierSeparatorConstant) {
		return RepositoryIdentifier{}, InvalidInputError{FieldName: fieldName, Message: repositoryIdentifierMessageConstant}
	}
	return RepositoryIdentifier{Owner: owner, Name: name}, nil
}
