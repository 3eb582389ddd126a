package patchers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/metal-stack/patch-version/pkg/config"
	"github.com/mitchellh/mapstructure"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

type LinePatch struct {
	file            string
	line            int
	replaceTemplate *string
}

func newLinePatch(rawConfig map[string]any) (*LinePatch, error) {
	var typedConfig config.LinePatchConfig
	err := mapstructure.Decode(rawConfig, &typedConfig)
	if err != nil {
		return nil, err
	}

	p := LinePatch{
		file:            typedConfig.File,
		line:            typedConfig.Line,
		replaceTemplate: typedConfig.ReplaceTemplate,
	}

	if p.line == 0 {
		p.line = config.DefaultLine
	}

	err = p.Validate()
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Apply replaces the configured line with the rendered template. Line endings are
// normalized to "\n".
func (p LinePatch) Apply(cr ContentReader, cw ContentWriter, newValue string) error {
	content, err := cr(p.file)
	if err != nil {
		return readError(p.file, err)
	}

	lines, count := splitLines(content)
	if p.line < 1 || p.line > count {
		return lineError(p.file, p.line, count)
	}

	if p.replaceTemplate == nil {
		lines[p.line-1] = newValue
	} else {
		lines[p.line-1] = fmt.Sprintf(*p.replaceTemplate, newValue)
	}

	new := strings.Join(lines, "\n")

	err = cw(p.file, []byte(new))
	if err != nil {
		return writeError(p.file, err)
	}

	return nil
}

// Line returns the configured line of the given content.
func (p LinePatch) Line(content []byte) (string, error) {
	lines, count := splitLines(content)
	if p.line < 1 || p.line > count {
		return "", lineError(p.file, p.line, count)
	}

	return lines[p.line-1], nil
}

// splitLines returns the lines of the content and how many of them can be patched.
// The empty element after a final line break is kept for rejoining but is not a line.
func splitLines(content []byte) ([]string, int) {
	lines := lineBreak.Split(string(content), -1)
	count := len(lines)
	if count > 1 && lines[count-1] == "" {
		count--
	}
	return lines, count
}

func (p LinePatch) File() string {
	return p.file
}

func (p LinePatch) Validate() error {
	if p.file == "" {
		return fmt.Errorf("file must be specified")
	}
	if p.line <= 0 {
		return &PatchError{Kind: KindLineIndexOutOfRange, File: p.file, Line: p.line, err: errors.New("lines start at 1")}
	}
	if p.replaceTemplate != nil && !strings.Contains(*p.replaceTemplate, "%s") {
		return fmt.Errorf("template must contain a %%s placeholder for the version")
	}
	return nil
}
