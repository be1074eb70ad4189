package githubapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const testListingOperationConstant = githubapi.OperationName("ListContents")

func TestDecodeTreeListing(testInstance *testing.T) {
	testCases := []struct {
		name                string
		body                string
		strict              bool
		expectedItems       []githubapi.TreeItem
		expectedSkipped     []string
		expectedUnsupported []githubapi.UnsupportedItem
		expectError         bool
		errorType           any
	}{
		{
			name: "files_and_directories",
			body: `[
				{"type":"file","name":"a.txt","path":"a.txt","download_url":"https://raw.example.test/a.txt"},
				{"type":"dir","name":"dir","path":"dir","download_url":null}
			]`,
			expectedItems: []githubapi.TreeItem{
				githubapi.FileItem{Path: "a.txt", Name: "a.txt", DownloadURL: "https://raw.example.test/a.txt"},
				githubapi.DirectoryItem{Path: "dir", Name: "dir"},
			},
		},
		{
			name: "bare_strings_skipped",
			body: `["unexpected", {"name":"b.txt","path":"dir/b.txt","download_url":"https://raw.example.test/dir/b.txt"}]`,
			expectedItems: []githubapi.TreeItem{
				githubapi.FileItem{Path: "dir/b.txt", Name: "b.txt", DownloadURL: "https://raw.example.test/dir/b.txt"},
			},
			expectedSkipped: []string{"unexpected"},
		},
		{
			name:        "bare_strings_rejected_in_strict_mode",
			body:        `["unexpected"]`,
			strict:      true,
			expectError: true,
			errorType:   githubapi.UnrecognizedEntryError{},
		},
		{
			name:        "numeric_entry_rejected",
			body:        `[42]`,
			expectError: true,
			errorType:   githubapi.UnrecognizedEntryError{},
		},
		{
			name: "submodule_and_symlink_not_traversed",
			body: `[
				{"type":"submodule","name":"vendor","path":"vendor","download_url":null},
				{"type":"symlink","name":"link","path":"link","download_url":null},
				{"type":"file","name":"a.txt","path":"a.txt","download_url":"https://raw.example.test/a.txt"}
			]`,
			expectedItems: []githubapi.TreeItem{
				githubapi.FileItem{Path: "a.txt", Name: "a.txt", DownloadURL: "https://raw.example.test/a.txt"},
			},
			expectedUnsupported: []githubapi.UnsupportedItem{
				{Path: "vendor", Name: "vendor", Type: "submodule"},
				{Path: "link", Name: "link", Type: "symlink"},
			},
		},
		{
			name: "single_object_yields_no_items",
			body: `{"type":"submodule","name":"vendor","path":"vendor","download_url":null}`,
			expectedUnsupported: []githubapi.UnsupportedItem{
				{Path: "vendor", Name: "vendor", Type: "submodule"},
			},
		},
		{
			name:        "single_object_rejected_in_strict_mode",
			body:        `{"type":"file","name":"only.txt","path":"only.txt","download_url":"https://raw.example.test/only.txt"}`,
			strict:      true,
			expectError: true,
			errorType:   githubapi.UnrecognizedEntryError{},
		},
		{
			name:        "malformed_body",
			body:        `not-json`,
			expectError: true,
			errorType:   githubapi.ResponseDecodingError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			listing, decodeError := githubapi.DecodeTreeListing(testListingOperationConstant, []byte(testCase.body), testCase.strict)
			if testCase.expectError {
				require.Error(testInstance, decodeError)
				require.IsType(testInstance, testCase.errorType, decodeError)
				return
			}

			require.NoError(testInstance, decodeError)
			require.Equal(testInstance, testCase.expectedItems, listing.Items)
			require.Equal(testInstance, testCase.expectedSkipped, listing.SkippedEntries)
			require.Equal(testInstance, testCase.expectedUnsupported, listing.UnsupportedItems)
		})
	}
}
