// Package repositories creates and deletes GitHub repositories owned by the
// authenticated account and exposes the repo-create and repo-delete commands.
package repositories
