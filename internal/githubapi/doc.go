// Package githubapi is the authenticated transport used by every gitcreator
// workflow.
//
// It issues JSON requests against the GitHub REST API, attaches the bearer
// credential supplied by an oauth2.TokenSource, enforces the expected status
// code of each operation, and decodes the directory listing shapes returned by
// the contents endpoint into typed tree items.
package githubapi
