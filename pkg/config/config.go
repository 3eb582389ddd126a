package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

const (
	DefaultLine          = 1
	DefaultTemplate      = "__version__ = '%s'"
	DefaultCommitMessage = "Bump version to %s"
)

// Configuration describes a single patch-version invocation. It is constructed once
// at startup and handed to the patcher by value.
type Configuration struct {
	File     string
	Alpha    bool
	Beta     bool
	Version  string
	Line     int
	Template string

	Modifiers Modifiers

	Commit        bool
	CommitMessage string
}

// File is the optional configuration file, which allows patching further files
// with the composed version.
type File struct {
	Modifiers Modifiers `json:"modifiers" description:"additional modifiers applied with the composed version"`
	Raw       []byte     `json:"-"`
}

func New(configPath string) (*File, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config := &File{Raw: data}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", configPath, err)
	}

	return config, nil
}

// Flag interprets a CI-style boolean input. Everything except the literal "false"
// (ignoring case and surrounding whitespace) is considered true, so the inputs are
// required and must be passed explicitly.
func Flag(value string) bool {
	return !strings.EqualFold(strings.TrimSpace(value), "false")
}

func (c Configuration) WithDefaults() Configuration {
	if c.Line == 0 {
		c.Line = DefaultLine
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.CommitMessage == "" {
		c.CommitMessage = DefaultCommitMessage
	}
	return c
}

// Resolve makes the paths of the target file and of all modifiers absolute. Relative
// paths are interpreted relative to dir.
func (c Configuration) Resolve(dir string) Configuration {
	c.File = absolute(dir, c.File)

	if c.Modifiers == nil {
		return c
	}

	mods := make(Modifiers, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		args := make(map[string]any, len(m.Args))
		for k, v := range m.Args {
			args[k] = v
		}
		if file, ok := args["file"].(string); ok {
			args["file"] = absolute(dir, file)
		}
		mods = append(mods, Modifier{Type: m.Type, Args: args})
	}
	c.Modifiers = mods

	return c
}

func absolute(dir, file string) string {
	if file == "" {
		return ""
	}
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(dir, file)
}

func (m Modifiers) String() string {
	types := []string{}
	for _, mod := range m {
		types = append(types, mod.Type)
	}
	return strings.Join(types, ", ")
}
