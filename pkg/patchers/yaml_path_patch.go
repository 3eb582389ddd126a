package patchers

import (
	"fmt"
	"strings"

	"github.com/metal-stack/patch-version/pkg/config"
	"github.com/metal-stack/patch-version/pkg/version"
	"github.com/mitchellh/mapstructure"

	yamlconv "sigs.k8s.io/yaml"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// YAMLPathPatch writes the composed version to a gjson path of a YAML document, e.g.
// the appVersion of a Helm chart shipping the package.
type YAMLPathPatch struct {
	file     string
	yamlPath string
	template *string
	// onlyUpgrade prevents replacing a newer version that is already present.
	onlyUpgrade bool
}

func newYAMLPathPatch(rawConfig map[string]any) (*YAMLPathPatch, error) {
	var typedConfig config.YAMLPathPatchConfig
	err := mapstructure.Decode(rawConfig, &typedConfig)
	if err != nil {
		return nil, err
	}

	p := YAMLPathPatch{
		file:     typedConfig.File,
		yamlPath: typedConfig.YAMLPath,
		template: typedConfig.Template,
	}

	if typedConfig.VersionCompare != nil {
		p.onlyUpgrade = *typedConfig.VersionCompare
	}

	err = p.Validate()
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (p YAMLPathPatch) Apply(cr ContentReader, cw ContentWriter, newValue string) error {
	content, err := cr(p.file)
	if err != nil {
		return readError(p.file, err)
	}

	if p.onlyUpgrade {
		upgrade, err := p.isUpgrade(content, newValue)
		if err != nil {
			return err
		}
		if !upgrade {
			return nil
		}
	}

	content, err = setYAML(content, p.yamlPath, p.render(newValue))
	if err != nil {
		return fmt.Errorf("error setting %s in %s: %w", p.yamlPath, p.file, err)
	}

	err = cw(p.file, content)
	if err != nil {
		return writeError(p.file, err)
	}

	return nil
}

// isUpgrade reports whether newValue is greater than the version currently stored at the
// path. A value that holds no comparable version is always replaced.
func (p YAMLPathPatch) isUpgrade(content []byte, newValue string) (bool, error) {
	newVersion, err := version.Semver(newValue)
	if err != nil {
		return false, fmt.Errorf("version %q cannot be compared: %w", newValue, err)
	}

	current, err := GetYAML(content, p.yamlPath)
	if err != nil {
		return false, fmt.Errorf("error retrieving yaml path from %s: %w", p.file, err)
	}

	if p.template != nil {
		var ok bool
		current, ok = version.Extract(*p.template, current)
		if !ok {
			return true, nil
		}
	}

	currentVersion, err := version.Semver(current)
	if err != nil {
		return true, nil
	}

	return newVersion.GreaterThan(currentVersion), nil
}

func (p YAMLPathPatch) render(v string) string {
	if p.template == nil {
		return v
	}
	return fmt.Sprintf(*p.template, v)
}

func setYAML(data []byte, path string, value any) ([]byte, error) {
	json, err := yamlconv.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}

	modified, err := sjson.Set(string(json), path, value)
	if err != nil {
		return nil, err
	}

	return yamlconv.JSONToYAML([]byte(modified))
}

func GetYAML(data []byte, path string) (string, error) {
	json, err := yamlconv.YAMLToJSON(data)
	if err != nil {
		return "", err
	}

	res := gjson.Get(string(json), path)
	if !res.Exists() {
		return "", fmt.Errorf("path not found in json: %v", path)
	}

	return res.String(), nil
}

func (p YAMLPathPatch) File() string {
	return p.file
}

func (p YAMLPathPatch) Validate() error {
	if p.file == "" {
		return fmt.Errorf("file must be specified")
	}
	if p.yamlPath == "" {
		return fmt.Errorf("yaml-path must be specified")
	}
	if p.template != nil && !strings.Contains(*p.template, "%s") {
		return fmt.Errorf("template must contain a %%s placeholder for the version")
	}
	return nil
}
