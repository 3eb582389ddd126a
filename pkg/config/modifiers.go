package config

const (
	LinePatchModifierType       string = "line-patch"
	YAMLPathVersionModifierType string = "yaml-path-version-patch"
)

type Modifiers []Modifier

type Modifier struct {
	Type string         `json:"type" description:"name of the modifier"`
	Args map[string]any `json:"args" description:"modifier configuration"`
}

type LinePatchConfig struct {
	File            string  `mapstructure:"file" description:"the name of the file to be patched"`
	Line            int     `mapstructure:"line" description:"the line number in the file to be patched, starting at 1"`
	ReplaceTemplate *string `mapstructure:"template" description:"a special template to be used for patching the line"`
}

type YAMLPathPatchConfig struct {
	File           string  `mapstructure:"file" description:"the name of the file to be patched"`
	YAMLPath       string  `mapstructure:"yaml-path" description:"the yaml path to the version"`
	Template       *string `mapstructure:"template" description:"a special template to be used for patching the version"`
	VersionCompare *bool   `mapstructure:"version-compare" description:"makes a version comparison before replacement and only replaces if version is greater than current"`
}

// LinePatch returns the modifier for the version line described by the configuration.
func (c Configuration) LinePatch() Modifier {
	return Modifier{
		Type: LinePatchModifierType,
		Args: map[string]any{
			"file":     c.File,
			"line":     c.Line,
			"template": c.Template,
		},
	}
}
