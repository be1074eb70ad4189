// Package utils holds the CLI plumbing shared by every gitcreator command:
// the Viper-backed ConfigurationLoader, the zap LoggerFactory, and the
// accessor that threads resolved GitHub settings through command contexts.
package utils
