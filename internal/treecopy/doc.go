// Package treecopy replicates the file tree of one GitHub repository into
// another through the contents API, one commit per copied file.
package treecopy
