package cmd

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luminatesec/luminate-client/pkg/authz/oauth"
	"github.com/luminatesec/luminate-client/pkg/cmd/properties"
	"github.com/luminatesec/luminate-client/pkg/config"
	"github.com/luminatesec/luminate-client/pkg/luminate"
	"github.com/luminatesec/luminate-client/pkg/notify"
	"github.com/luminatesec/luminate-client/pkg/provisioning"
	"github.com/luminatesec/luminate-client/pkg/util"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

// Process exit codes
const (
	ExitOK           = 0
	ExitConfigFailed = 1
	ExitRecordsFail  = 2
)

const (
	pathConfig          = "path.config"
	pathApplications    = "path.applications"
	pathEnvFile         = "path.envFile"
	pathConfigFile      = "path.configFile"
	pathAPIVersion      = "luminate.apiVersion"
	pathClientSecret    = "luminate.clientSecret"
	pathAuthMethod      = "luminate.authMethod"
	pathTokenPolicy     = "luminate.tokenPolicy"
	pathProxyURL        = "luminate.proxyUrl"
	pathTimeout         = "luminate.timeout"
	pathFailOnRecordErr = "failOnRecordErrors"
)

// ClientFactory - builds the Luminate client from the tenant config
type ClientFactory func(tenant config.TenantConfig, opts ...luminate.ClientOption) (luminate.Client, error)

// RootCmd - the luminate_client command
type RootCmd interface {
	RootCmd() *cobra.Command
	Execute() error
	ExitCode() int
	GetProperties() properties.Properties
}

type rootCommand struct {
	name          string
	rootCmd       *cobra.Command
	props         properties.Properties
	clientFactory ClientFactory
	notifierOpts  []notify.NotifierOption
	logger        log.FieldLogger
	exitCode      int
}

// RootOption -
type RootOption func(*rootCommand)

// WithClientFactory - replaces the factory of the Luminate client
func WithClientFactory(factory ClientFactory) RootOption {
	return func(c *rootCommand) {
		c.clientFactory = factory
	}
}

// WithNotifierOptions - options passed to the run report notifier
func WithNotifierOptions(opts ...notify.NotifierOption) RootOption {
	return func(c *rootCommand) {
		c.notifierOpts = append(c.notifierOpts, opts...)
	}
}

// NewRootCmd - Creates the root command and registers its properties
func NewRootCmd(exeName, desc string, opts ...RootOption) RootCmd {
	c := &rootCommand{
		name:          exeName,
		clientFactory: newLuminateClient,
	}
	for _, o := range opts {
		o(c)
	}

	c.rootCmd = &cobra.Command{
		Use:           c.name,
		Short:         desc,
		Version:       GetVersion(),
		Args:          cobra.NoArgs,
		PreRunE:       c.initialize,
		RunE:          c.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c.props = properties.NewProperties(c.rootCmd)
	c.addBaseProperties()
	config.AddLogConfigProperties(c.props)
	config.AddNotificationConfigProperties(c.props)
	return c
}

func (c *rootCommand) addBaseProperties() {
	c.props.AddStringProperty(pathConfig, "conf/luminate.properties", "Path of the tenant properties file")
	c.props.AddStringProperty(pathApplications, "conf/luminate.applications", "Path of the applications file, .yaml or .yml files are read as YAML")
	c.props.AddStringProperty(pathEnvFile, "", "Path of a file with environment variables to load")
	c.props.AddStringProperty(pathConfigFile, c.name+".yaml", "Path of an optional yaml file with property values")
	c.props.AddIntProperty(pathAPIVersion, 0, "Luminate API version, overrides api_version of the tenant properties file")
	c.props.AddStringProperty(pathClientSecret, "", "OAuth client secret, overrides client_secret of the tenant properties file")
	c.props.AddStringProperty(pathAuthMethod, oauth.AuthMethodClientSecretBasic, "OAuth client authentication (client_secret_basic, client_secret_post, client_secret_jwt)")
	c.props.AddStringProperty(pathTokenPolicy, "refresh", "What to do when the access token is rejected (refresh, reuse)")
	c.props.AddStringProperty(pathProxyURL, "", "Proxy for the Luminate API (http, https or socks5 url)")
	c.props.AddDurationProperty(pathTimeout, 60*time.Second, "Timeout of each Luminate API request")
	c.props.AddBoolProperty(pathFailOnRecordErr, false, "Exit with a non zero status when any application record fails")
}

// initialize - loads the env file and the optional yaml file before any property is read
func (c *rootCommand) initialize(_ *cobra.Command, _ []string) error {
	if err := util.LoadEnvFromFile(c.props.StringPropertyValue(pathEnvFile)); err != nil {
		c.exitCode = ExitConfigFailed
		return config.ErrReadingConfigFile.FormatError(c.props.StringPropertyValue(pathEnvFile))
	}

	configFile := c.props.StringPropertyValue(pathConfigFile)
	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := c.props.ReadConfigFile(configFile); err != nil {
		c.exitCode = ExitConfigFailed
		return config.ErrReadingConfigFile.FormatErrorWithCause(err, configFile)
	}
	return nil
}

func (c *rootCommand) run(_ *cobra.Command, _ []string) error {
	logger, _, err := config.ParseAndSetupLogConfig(c.props)
	if err != nil {
		c.exitCode = ExitConfigFailed
		return err
	}
	c.logger = log.NewFieldLoggerFrom(logger).WithComponent(c.name)
	c.logger.Infof("Starting %s (%s)", c.rootCmd.Short, c.rootCmd.Version)

	err = c.provision()
	if err != nil {
		c.logger.WithError(err).Critical("provisioning run failed")
	}
	return err
}

func (c *rootCommand) provision() error {
	tenant, err := c.parseTenantConfig()
	if err != nil {
		c.exitCode = ExitConfigFailed
		return err
	}

	notificationCfg, err := config.ParseNotificationConfig(c.props)
	if err != nil {
		c.exitCode = ExitConfigFailed
		return err
	}

	clientOpts, err := c.clientOptions()
	if err != nil {
		c.exitCode = ExitConfigFailed
		return err
	}

	c.logger.
		WithField("tenant", tenant.GetTenantName()).
		WithField("url", tenant.GetURL()).
		Debug("creating Luminate client")
	client, err := c.clientFactory(tenant, clientOpts...)
	if err != nil {
		c.exitCode = ExitConfigFailed
		return err
	}

	code, report := provisioning.ConfigureApplications(client, c.props.StringPropertyValue(pathApplications), provisioning.WithLogger(c.logger))
	if code != provisioning.CompletionOK {
		c.exitCode = ExitConfigFailed
		return config.ErrReadingConfigFile.FormatError(c.props.StringPropertyValue(pathApplications))
	}

	notifierOpts := append([]notify.NotifierOption{notify.WithLogger(c.logger)}, c.notifierOpts...)
	if err := notify.NewNotifier(notificationCfg, notifierOpts...).Notify(report); err != nil {
		c.logger.WithError(err).Warn("run report notification failed")
	}

	failures := len(report.Failures())
	if failures > 0 && c.props.BoolPropertyValue(pathFailOnRecordErr) {
		c.exitCode = ExitRecordsFail
		return provisioning.ErrRecordsFailed.FormatErrorWithCause(report.Err(), failures, len(report.Results))
	}
	c.exitCode = ExitOK
	return nil
}

func (c *rootCommand) parseTenantConfig() (config.TenantConfig, error) {
	tenant, err := config.LoadTenantConfig(c.props.StringPropertyValue(pathConfig))
	if err != nil {
		return nil, err
	}

	tenantCfg := tenant.(*config.TenantConfiguration)
	if secret := c.props.StringPropertyValue(pathClientSecret); secret != "" {
		tenantCfg = tenantCfg.WithClientSecret(secret)
	}
	if version := c.props.IntPropertyValue(pathAPIVersion); version > 0 {
		tenantCfg.APIVersion = version
	}

	if err := config.ValidateConfig(tenantCfg); err != nil {
		return nil, err
	}
	return tenantCfg, nil
}

func (c *rootCommand) clientOptions() ([]luminate.ClientOption, error) {
	policy, err := luminate.ParseTokenPolicy(c.props.StringPropertyValue(pathTokenPolicy))
	if err != nil {
		return nil, err
	}

	name := BuildName
	if name == "" {
		name = c.name
	}

	return []luminate.ClientOption{
		luminate.WithLogger(c.logger),
		luminate.WithTokenPolicy(policy),
		luminate.WithAuthMethod(c.props.StringPropertyValue(pathAuthMethod)),
		luminate.WithProxy(c.props.StringPropertyValue(pathProxyURL)),
		luminate.WithTimeout(c.props.DurationPropertyValue(pathTimeout)),
		luminate.WithUserAgent(util.NewUserAgent(name, GetVersion()).FormatUserAgent()),
	}, nil
}

func newLuminateClient(tenant config.TenantConfig, opts ...luminate.ClientOption) (luminate.Client, error) {
	opts = append([]luminate.ClientOption{luminate.WithTLSConfig(tenant.GetTLSConfig())}, opts...)
	return luminate.NewClient(tenant.GetURL(), tenant.GetAPIVersion(), tenant.GetClientID(), tenant.GetClientSecret(), opts...)
}

// RootCmd -
func (c *rootCommand) RootCmd() *cobra.Command {
	return c.rootCmd
}

// Execute - runs the command, ExitCode holds the process exit status afterwards
func (c *rootCommand) Execute() error {
	err := c.rootCmd.Execute()
	if err != nil && c.exitCode == ExitOK {
		c.exitCode = ExitConfigFailed
	}
	return err
}

// ExitCode -
func (c *rootCommand) ExitCode() int {
	return c.exitCode
}

// GetProperties -
func (c *rootCommand) GetProperties() properties.Properties {
	return c.props
}
