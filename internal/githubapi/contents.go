package githubapi

import (
	"bytes"
	"encoding/json"

	"github.com/google/go-github/v72/github"
)

const (
	jsonStringPrefixConstant   = '"'
	jsonObjectPrefixConstant   = '{'
	directoryEntryTypeConstant = "dir"
)

// TreeItem is either a FileItem or a DirectoryItem.
type TreeItem interface {
	ItemPath() string
	ItemName() string
	treeItem()
}

// FileItem is a listing entry that carries a raw content download location.
type FileItem struct {
	Path        string
	Name        string
	DownloadURL string
}

// DirectoryItem is a listing entry of type "dir".
type DirectoryItem struct {
	Path string
	Name string
}

// ItemPath returns the repository-relative path.
func (item FileItem) ItemPath() string { return item.Path }

// ItemName returns the final path element.
func (item FileItem) ItemName() string { return item.Name }

func (FileItem) treeItem() {}

// ItemPath returns the repository-relative path.
func (item DirectoryItem) ItemPath() string { return item.Path }

// ItemName returns the final path element.
func (item DirectoryItem) ItemName() string { return item.Name }

func (DirectoryItem) treeItem() {}

// UnsupportedItem is an object entry that is neither a directory nor a
// downloadable file, such as a submodule or a symlink.
type UnsupportedItem struct {
	Path string
	Name string
	Type string
}

// TreeListing is the decoded result of a contents listing.
type TreeListing struct {
	Items []TreeItem
	// SkippedEntries holds bare string entries that were ignored.
	SkippedEntries []string
	// UnsupportedItems holds object entries that cannot be copied.
	UnsupportedItems []UnsupportedItem
}

// DecodeTreeListing decodes a contents listing body. Bare string entries are
// collected in SkippedEntries, or rejected with UnrecognizedEntryError when
// strict is set. A single object is not a directory listing: it yields no items
// and is reported in UnsupportedItems, or rejected when strict is set.
func DecodeTreeListing(operation OperationName, body []byte, strict bool) (TreeListing, error) {
	trimmedBody := bytes.TrimSpace(body)
	if len(trimmedBody) > 0 && trimmedBody[0] == jsonObjectPrefixConstant {
		if strict {
			return TreeListing{}, UnrecognizedEntryError{Index: 0, Raw: string(trimmedBody)}
		}
		var content github.RepositoryContent
		if decodingError := json.Unmarshal(trimmedBody, &content); decodingError != nil {
			return TreeListing{}, ResponseDecodingError{Operation: operation, Cause: decodingError}
		}
		return TreeListing{UnsupportedItems: []UnsupportedItem{unsupportedItem(&content)}}, nil
	}

	var rawEntries []json.RawMessage
	if decodingError := json.Unmarshal(trimmedBody, &rawEntries); decodingError != nil {
		return TreeListing{}, ResponseDecodingError{Operation: operation, Cause: decodingError}
	}

	listing := TreeListing{Items: make([]TreeItem, 0, len(rawEntries))}
	for entryIndex, rawEntry := range rawEntries {
		trimmedEntry := bytes.TrimSpace(rawEntry)
		switch trimmedEntry[0] {
		case jsonStringPrefixConstant:
			if strict {
				return TreeListing{}, UnrecognizedEntryError{Index: entryIndex, Raw: string(trimmedEntry)}
			}
			var bareString string
			if decodingError := json.Unmarshal(trimmedEntry, &bareString); decodingError != nil {
				return TreeListing{}, ResponseDecodingError{Operation: operation, Cause: decodingError}
			}
			listing.SkippedEntries = append(listing.SkippedEntries, bareString)
		case jsonObjectPrefixConstant:
			var content github.RepositoryContent
			if decodingError := json.Unmarshal(trimmedEntry, &content); decodingError != nil {
				return TreeListing{}, ResponseDecodingError{Operation: operation, Cause: decodingError}
			}
			switch {
			case content.GetType() == directoryEntryTypeConstant:
				listing.Items = append(listing.Items, DirectoryItem{Path: content.GetPath(), Name: content.GetName()})
			case len(content.GetDownloadURL()) > 0:
				listing.Items = append(listing.Items, FileItem{
					Path:        content.GetPath(),
					Name:        content.GetName(),
					DownloadURL: content.GetDownloadURL(),
				})
			default:
				listing.UnsupportedItems = append(listing.UnsupportedItems, unsupportedItem(&content))
			}
		default:
			return TreeListing{}, UnrecognizedEntryError{Index: entryIndex, Raw: string(trimmedEntry)}
		}
	}

	return listing, nil
}

func unsupportedItem(content *github.RepositoryContent) UnsupportedItem {
	return UnsupportedItem{Path: content.GetPath(), Name: content.GetName(), Type: content.GetType()}
}
