package properties

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Properties - Root Command Properties interface for all configs to use for adding and parsing values
type Properties interface {
	// Methods for adding yaml properties and command flag
	AddStringProperty(name string, defaultVal string, description string)
	AddDurationProperty(name string, defaultVal time.Duration, description string)
	AddIntProperty(name string, defaultVal int, description string)
	AddBoolProperty(name string, defaultVal bool, description string)
	AddStringSliceProperty(name string, defaultVal []string, description string)

	// Methods to get the configured properties
	StringPropertyValue(name string) string
	DurationPropertyValue(name string) time.Duration
	IntPropertyValue(name string) int
	BoolPropertyValue(name string) bool
	StringSlicePropertyValue(name string) []string

	// ReadConfigFile - merges an optional yaml file holding property values
	ReadConfigFile(path string) error
}

type properties struct {
	rootCmd *cobra.Command
	v       *viper.Viper
	title   cases.Caser
}

// NewProperties - Creates a new Properties struct. Property values resolve from, in order:
// command line flags, environment variables (LUMINATE_CLIENTSECRET for luminate.clientSecret),
// the yaml config file and the flag defaults.
func NewProperties(rootCmd *cobra.Command) Properties {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &properties{
		rootCmd: rootCmd,
		v:       v,
		title:   cases.Title(language.Und, cases.NoLower),
	}
}

func (p *properties) bindOrPanic(key string, flg *flag.Flag) {
	if err := p.v.BindPFlag(key, flg); err != nil {
		panic(err)
	}
}

func (p *properties) AddStringProperty(name string, defaultVal string, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.Flags().String(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.Flags().Lookup(flagName))
	}
}

func (p *properties) AddStringSliceProperty(name string, defaultVal []string, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.Flags().StringSlice(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.Flags().Lookup(flagName))
	}
}

func (p *properties) AddDurationProperty(name string, defaultVal time.Duration, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.Flags().Duration(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.Flags().Lookup(flagName))
	}
}

func (p *properties) AddIntProperty(name string, defaultVal int, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.Flags().Int(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.Flags().Lookup(flagName))
	}
}

func (p *properties) AddBoolProperty(name string, defaultVal bool, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.rootCmd.Flags().Bool(flagName, defaultVal, description)
		p.bindOrPanic(name, p.rootCmd.Flags().Lookup(flagName))
	}
}

func (p *properties) ReadConfigFile(path string) error {
	p.v.SetConfigFile(path)
	return p.v.MergeInConfig()
}

func (p *properties) StringSlicePropertyValue(name string) []string {
	val := p.v.Get(name)

	// values from the environment or the command line arrive as one comma separated string
	switch val.(type) {
	case string:
		return p.convertStringToSlice(fmt.Sprintf("%v", val))
	default:
		return p.v.GetStringSlice(name)
	}
}

func (p *properties) convertStringToSlice(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	slc := strings.Split(value, ",")
	for i := range slc {
		slc[i] = strings.TrimSpace(slc[i])
	}
	return slc
}

func (p *properties) StringPropertyValue(name string) string {
	return p.v.GetString(name)
}

func (p *properties) DurationPropertyValue(name string) time.Duration {
	return p.v.GetDuration(name)
}

func (p *properties) IntPropertyValue(name string) int {
	return p.v.GetInt(name)
}

func (p *properties) BoolPropertyValue(name string) bool {
	return p.v.GetBool(name)
}

func (p *properties) nameToFlagName(name string) (flagName string) {
	parts := strings.Split(name, ".")
	flagName = parts[0]
	for _, part := range parts[1:] {
		flagName += p.title.String(part)
	}
	return
}
