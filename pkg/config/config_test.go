package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "false", want: false},
		{value: "False", want: false},
		{value: " false\n", want: false},
		{value: "true", want: true},
		{value: "yes", want: true},
		{value: "0", want: true},
		{value: "", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Flag(tt.value))
		})
	}
}

func TestConfiguration_WithDefaults(t *testing.T) {
	got := Configuration{File: "__init__.py", Version: "1.0.0"}.WithDefaults()

	want := Configuration{
		File:          "__init__.py",
		Version:       "1.0.0",
		Line:          1,
		Template:      "__version__ = '%s'",
		CommitMessage: "Bump version to %s",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithDefaults() diff: %v", diff)
	}

	kept := Configuration{Line: 3, Template: "VERSION = '%s'"}.WithDefaults()
	assert.Equal(t, 3, kept.Line)
	assert.Equal(t, "VERSION = '%s'", kept.Template)
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch-version.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`modifiers:
- type: yaml-path-version-patch
  args:
    file: chart/Chart.yaml
    yaml-path: appVersion
    version-compare: true
- type: line-patch
  args:
    file: docs/conf.py
    line: 2
    template: "release = '%s'"
`), 0644))

	f, err := New(path)
	require.NoError(t, err)

	want := Modifiers{
		{
			Type: YAMLPathVersionModifierType,
			Args: map[string]any{"file": "chart/Chart.yaml", "yaml-path": "appVersion", "version-compare": true},
		},
		{
			Type: LinePatchModifierType,
			Args: map[string]any{"file": "docs/conf.py", "line": float64(2), "template": "release = '%s'"},
		},
	}
	if diff := cmp.Diff(want, f.Modifiers); diff != "" {
		t.Errorf("New() diff: %v", diff)
	}
	assert.Equal(t, "yaml-path-version-patch, line-patch", f.Modifiers.String())

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfiguration_LinePatch(t *testing.T) {
	m := Configuration{File: "__init__.py", Line: 2, Template: DefaultTemplate}.LinePatch()

	assert.Equal(t, LinePatchModifierType, m.Type)
	assert.Equal(t, map[string]any{"file": "__init__.py", "line": 2, "template": DefaultTemplate}, m.Args)
}

func TestConfiguration_Resolve(t *testing.T) {
	c := Configuration{
		File: "../divik/__init__.py",
		Modifiers: Modifiers{
			{Type: YAMLPathVersionModifierType, Args: map[string]any{"file": "chart/Chart.yaml", "yaml-path": "appVersion"}},
			{Type: LinePatchModifierType, Args: map[string]any{"file": "/opt/divik/conf.py", "line": 2}},
		},
	}

	got := c.Resolve("/work/checkout")

	want := Configuration{
		File: "/work/divik/__init__.py",
		Modifiers: Modifiers{
			{Type: YAMLPathVersionModifierType, Args: map[string]any{"file": "/work/checkout/chart/Chart.yaml", "yaml-path": "appVersion"}},
			{Type: LinePatchModifierType, Args: map[string]any{"file": "/opt/divik/conf.py", "line": 2}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() diff: %v", diff)
	}

	assert.Equal(t, "chart/Chart.yaml", c.Modifiers[0].Args["file"], "resolving must not modify the original modifiers")
	assert.Empty(t, Configuration{}.Resolve("/work").File)
}
