// Package githubauth resolves the single GitHub credential used by gitcreator.
//
// A credential is declared as a token source (env:NAME or file:/path). When no
// declaration resolves, the conventional GitHub environment variables are
// consulted. The resolved token is exposed as an oauth2.TokenSource for the
// githubapi transport.
package githubauth
