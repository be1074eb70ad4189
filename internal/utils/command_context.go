package utils

import "context"

const (
	gitHubSettingsContextKeyConstant = commandContextKey("gitHubSettings")
)

type commandContextKey string

// GitHubSettings carries the resolved API endpoint and credential declaration for a command run.
type GitHubSettings struct {
	BaseURL     string
	TokenSource string
}

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithGitHubSettings attaches the GitHub settings to the provided context.
func (accessor CommandContextAccessor) WithGitHubSettings(parentContext context.Context, settings GitHubSettings) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, gitHubSettingsContextKeyConstant, settings)
}

// GitHubSettings extracts the GitHub settings from the provided context.
func (accessor CommandContextAccessor) GitHubSettings(executionContext context.Context) (GitHubSettings, bool) {
	if executionContext == nil {
		return GitHubSettings{}, false
	}
	settings, settingsAvailable := executionContext.Value(gitHubSettingsContextKeyConstant).(GitHubSettings)
	return settings, settingsAvailable
}
