package provisioning

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/luminatesec/luminate-client/pkg/config"
)

// Section - one named record of the applications file, keys are lower case
type Section struct {
	Name string
	Keys map[string]string
}

// Has - true when the key is set to a non blank value
func (s Section) Has(key string) bool {
	return strings.TrimSpace(s.Keys[key]) != ""
}

// Get - the trimmed value of the key, empty when not set
func (s Section) Get(key string) string {
	return strings.TrimSpace(s.Keys[key])
}

// LoadApplications - reads the applications file, sections are returned in file order.
// Files ending in .yaml or .yml are read as YAML, anything else as INI.
func LoadApplications(path string) ([]Section, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, config.ErrMissingConfigFile.FormatError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.ErrReadingConfigFile.FormatError(fmt.Sprintf("%s - %s", path, err))
	}

	var sections []Section
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sections, err = parseYAMLSections(data)
	default:
		sections, err = parseINISections(data)
	}
	if err != nil {
		return nil, config.ErrReadingConfigFile.FormatError(fmt.Sprintf("%s - %s", path, err))
	}
	return sections, nil
}

// keys of the DEFAULT section apply to every other section unless the section sets them
func parseINISections(data []byte) ([]Section, error) {
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, err
	}

	defaults := file.Section(ini.DefaultSection).KeysHash()
	sections := make([]Section, 0)
	for _, s := range file.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		keys := make(map[string]string, len(defaults))
		for k, v := range defaults {
			keys[k] = v
		}
		for k, v := range s.KeysHash() {
			keys[k] = v
		}
		sections = append(sections, Section{Name: s.Name(), Keys: keys})
	}
	return sections, nil
}

// the YAML form is a mapping of section name to record, lists are joined with commas
//
//	web1:
//	  app_name: web1
//	  ssh_users: [ubuntu, ec2-user]
func parseYAMLSections(data []byte) ([]Section, error) {
	doc := yaml.Node{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	sections := make([]Section, 0)
	if len(doc.Content) == 0 {
		return sections, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of section names to applications", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		values := map[string]interface{}{}
		if err := root.Content[i+1].Decode(&values); err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}

		keys := make(map[string]string, len(values))
		for k, v := range values {
			keys[strings.ToLower(k)] = yamlValueString(v)
		}
		sections = append(sections, Section{Name: name, Keys: keys})
	}
	return sections, nil
}

func yamlValueString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []interface{}:
		items := make([]string, 0, len(value))
		for _, item := range value {
			items = append(items, yamlValueString(item))
		}
		return strings.Join(items, ",")
	default:
		return fmt.Sprint(value)
	}
}
