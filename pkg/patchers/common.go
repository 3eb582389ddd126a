package patchers

import (
	"fmt"

	"github.com/metal-stack/patch-version/pkg/config"
)

type ContentReader func(file string) ([]byte, error)
type ContentWriter func(file string, content []byte) error

type Patcher interface {
	Apply(cr ContentReader, cw ContentWriter, newValue string) error
	Validate() error
	File() string
}

func InitPatcher(c config.Modifier) (Patcher, error) {
	switch t := c.Type; t {
	case config.YAMLPathVersionModifierType:
		return newYAMLPathPatch(c.Args)
	case config.LinePatchModifierType:
		return newLinePatch(c.Args)
	default:
		return nil, fmt.Errorf("unsupported modifier type: %v", t)
	}
}
