package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	workflowcmd "github.com/temirov/gitcreator/cmd/cli/workflow"
	"github.com/temirov/gitcreator/internal/githubapi"
	"github.com/temirov/gitcreator/internal/githubauth"
	"github.com/temirov/gitcreator/internal/issues"
	"github.com/temirov/gitcreator/internal/repositories"
	"github.com/temirov/gitcreator/internal/treecopy"
	"github.com/temirov/gitcreator/internal/utils"
)

const (
	applicationNameConstant                 = "gitcreator"
	applicationShortDescriptionConstant     = "Create GitHub repositories from templates and migrate their issues"
	applicationLongDescriptionConstant      = "gitcreator talks to the GitHub REST API to create and delete repositories, copy a template repository's file tree, and migrate open issues with their comments."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	tokenSourceFlagNameConstant             = "token-source"
	tokenSourceFlagUsageConstant            = "GitHub token source: env:NAME, file:/path, or a bare variable name."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the gitcreator version and exit."
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	gitHubBaseURLConfigKeyConstant          = "github.base_url"
	gitHubTokenSourceConfigKeyConstant      = "github.token_source"
	workflowDryRunConfigKeyConstant         = "tools.workflow.dry_run"
	environmentPrefixConstant               = "GITCREATOR"
	configurationSearchPathEnvironmentName  = "GITCREATOR_CONFIG_SEARCH_PATH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationDirectoryNameConstant  = "gitcreator"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationBaseURLFieldConstant       = "base_url"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	tokenResolutionErrorTemplateConstant    = "unable to resolve GitHub token: %w"
	unknownCommandTemplateConstant          = "unknown command %q"
	versionOutputTemplateConstant           = "%s version: %s\n"
	developmentVersionConstant              = "dev"
	buildInfoDevelopmentVersionConstant     = "(devel)"
	commandBuildFailedMessageConstant       = "command registration failed"
	logFieldCommandNameConstant             = "command_name"
)

// Version is stamped at build time with -ldflags "-X github.com/temirov/gitcreator/cmd/cli.Version=...".
var Version = ""

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	GitHub ApplicationGitHubConfiguration `mapstructure:"github"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationGitHubConfiguration selects the API endpoint and credential declaration.
type ApplicationGitHubConfiguration struct {
	BaseURL     string `mapstructure:"base_url"`
	TokenSource string `mapstructure:"token_source"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands.
type ApplicationToolsConfiguration struct {
	Workflow workflowcmd.CommandConfiguration `mapstructure:"workflow"`
}

// Application wires the Cobra root command, configuration loader, structured logger and GitHub client.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	tokenSourceFlagValue   string
	commandContextAccessor utils.CommandContextAccessor
	tokenResolver          *githubauth.Resolver
	httpClient             githubapi.HTTPClient
	versionResolver        func(context.Context) string
	exitFunction           func(int)
	versionOutput          io.Writer
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	embeddedConfiguration, _ := EmbeddedDefaultConfiguration()
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		Name:                  configurationNameConstant,
		Type:                  configurationTypeConstant,
		EnvironmentPrefix:     environmentPrefixConstant,
		SearchPaths:           configurationSearchPaths(),
		EmbeddedConfiguration: embeddedConfiguration,
	})

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		tokenResolver:          githubauth.NewResolver(nil, nil, nil),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	persistentFlags.StringVar(&application.tokenSourceFlagValue, tokenSourceFlagNameConstant, "", tokenSourceFlagUsageConstant)
	persistentFlags.Bool(versionFlagNameConstant, false, versionFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	commandBuilders := []interface {
		Build() (*cobra.Command, error)
	}{
		&repositories.CreateCommandBuilder{
			LoggerProvider: loggerProvider,
			ClientProvider: func(executionContext context.Context) (repositories.RemoteClient, error) {
				return application.newGitHubClient(executionContext)
			},
		},
		&repositories.DeleteCommandBuilder{
			LoggerProvider: loggerProvider,
			ClientProvider: func(executionContext context.Context) (repositories.RemoteClient, error) {
				return application.newGitHubClient(executionContext)
			},
		},
		&treecopy.CommandBuilder{
			LoggerProvider: loggerProvider,
			ClientProvider: func(executionContext context.Context) (treecopy.RemoteClient, error) {
				return application.newGitHubClient(executionContext)
			},
		},
		&issues.CommandBuilder{
			LoggerProvider: loggerProvider,
			ClientProvider: func(executionContext context.Context) (issues.RemoteClient, error) {
				return application.newGitHubClient(executionContext)
			},
		},
		&workflowcmd.CommandBuilder{
			LoggerProvider: loggerProvider,
			ClientProvider: application.newGitHubClient,
			ConfigurationProvider: func() workflowcmd.CommandConfiguration {
				return application.configuration.Tools.Workflow
			},
		},
	}

	for _, commandBuilder := range commandBuilders {
		subcommand, buildError := commandBuilder.Build()
		if buildError != nil {
			application.logger.Error(commandBuildFailedMessageConstant, zap.Error(buildError))
			continue
		}
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	if application.versionRequested(os.Args[1:]) {
		application.printVersion()
		application.exitFunction(0)
		return nil
	}

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// InitializeForCommand loads configuration as if the named subcommand were executed.
func (application *Application) InitializeForCommand(commandUse string) error {
	targetCommand := application.rootCommand
	trimmedUse := strings.TrimSpace(commandUse)
	if len(trimmedUse) > 0 {
		foundCommand, _, findError := application.rootCommand.Find([]string{trimmedUse})
		if findError != nil || foundCommand == application.rootCommand {
			return fmt.Errorf(unknownCommandTemplateConstant, trimmedUse)
		}
		targetCommand = foundCommand
	}
	if targetCommand.Context() == nil {
		targetCommand.SetContext(context.Background())
	}
	return application.initializeConfiguration(targetCommand)
}

// Configuration returns the configuration resolved by the last initialization.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:    string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:   string(utils.LogFormatStructured),
		gitHubBaseURLConfigKeyConstant:     githubapi.DefaultBaseURL,
		gitHubTokenSourceConfigKeyConstant: "",
		workflowDryRunConfigKeyConstant:    workflowcmd.DefaultCommandConfiguration().DryRun,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, tokenSourceFlagNameConstant) {
		application.configuration.GitHub.TokenSource = application.tokenSourceFlagValue
	}

	logLevel, logLevelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.String(configurationLogLevelFieldConstant, string(logLevel)),
		zap.String(configurationLogFormatFieldConstant, string(logFormat)),
		zap.String(configurationBaseURLFieldConstant, application.configuration.GitHub.BaseURL),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	updatedContext := application.commandContextAccessor.WithGitHubSettings(command.Context(), utils.GitHubSettings{
		BaseURL:     application.configuration.GitHub.BaseURL,
		TokenSource: application.configuration.GitHub.TokenSource,
	})
	command.SetContext(updatedContext)
	if rootCommand := command.Root(); rootCommand != nil {
		rootCommand.SetContext(updatedContext)
	}

	return nil
}

// newGitHubClient resolves the credential for the current command and constructs the API client.
func (application *Application) newGitHubClient(executionContext context.Context) (*githubapi.Client, error) {
	settings, settingsAvailable := application.commandContextAccessor.GitHubSettings(executionContext)
	if !settingsAvailable {
		settings = utils.GitHubSettings{
			BaseURL:     application.configuration.GitHub.BaseURL,
			TokenSource: application.configuration.GitHub.TokenSource,
		}
	}

	tokenSource, tokenError := application.tokenResolver.ResolveTokenSource(executionContext, settings.TokenSource)
	if tokenError != nil {
		return nil, fmt.Errorf(tokenResolutionErrorTemplateConstant, tokenError)
	}

	return githubapi.NewClient(githubapi.Configuration{
		BaseURL:     settings.BaseURL,
		TokenSource: tokenSource,
		HTTPClient:  application.httpClient,
		Logger:      application.logger,
	})
}

func (application *Application) versionRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == "--" {
			return false
		}
		if argument == "--"+versionFlagNameConstant {
			return true
		}
	}
	return false
}

func (application *Application) printVersion() {
	output := application.versionOutput
	if output == nil {
		output = os.Stdout
	}
	fmt.Fprintf(output, versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(context.Background()))
}

func resolveBuildVersion(context.Context) string {
	if trimmedVersion := strings.TrimSpace(Version); len(trimmedVersion) > 0 {
		return trimmedVersion
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable || len(buildInfo.Main.Version) == 0 || buildInfo.Main.Version == buildInfoDevelopmentVersionConstant {
		return developmentVersionConstant
	}
	return buildInfo.Main.Version
}

func configurationSearchPaths() []string {
	if overridePaths := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentName)); len(overridePaths) > 0 {
		return filepath.SplitList(overridePaths)
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
