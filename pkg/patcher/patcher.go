// Package patcher writes a composed version into the version declaration of a file
// and into any further configured modifier targets.
package patcher

import (
	"bytes"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/metal-stack/patch-version/pkg/config"
	"github.com/metal-stack/patch-version/pkg/patchers"
	"github.com/metal-stack/patch-version/pkg/version"
	"go.uber.org/zap"
)

type VersionPatcher struct {
	logger *zap.SugaredLogger
	fs     billy.Filesystem
}

type Result struct {
	// Version is the composed version that was written.
	Version string
	// Previous is the version found on the target line before patching, empty if the
	// line did not contain a version assignment.
	Previous string
	// Changed reports whether the content of the target file differs after patching.
	Changed bool
	// Content is the new content of the target file.
	Content string
	// Files contains every file written, starting with the target file.
	Files []string
}

func New(logger *zap.SugaredLogger, fs billy.Filesystem) *VersionPatcher {
	return &VersionPatcher{
		logger: logger,
		fs:     fs,
	}
}

func (p *VersionPatcher) Patch(cfg config.Configuration) (*Result, error) {
	cfg = cfg.WithDefaults()

	composed := version.Compose(cfg.Version, cfg.Alpha, cfg.Beta)

	linePatch, err := patchers.InitPatcher(cfg.LinePatch())
	if err != nil {
		return nil, fmt.Errorf("invalid version line configuration: %w", err)
	}

	modifiers := []patchers.Patcher{}
	for _, m := range cfg.Modifiers {
		mod, err := patchers.InitPatcher(m)
		if err != nil {
			return nil, fmt.Errorf("invalid modifier %q: %w", m.Type, err)
		}
		modifiers = append(modifiers, mod)
	}

	var (
		reader = patchers.Reader(p.fs)
		writer = patchers.Writer(p.fs)

		before []byte
		after  []byte
	)

	res := &Result{Version: composed}

	err = linePatch.Apply(func(file string) ([]byte, error) {
		content, err := reader(file)
		if err != nil {
			return nil, err
		}
		before = content
		return content, nil
	}, func(file string, content []byte) error {
		after = content
		return writer(file, content)
	}, composed)
	if err != nil {
		return nil, err
	}

	if lp, ok := linePatch.(*patchers.LinePatch); ok {
		if current, err := lp.Line(before); err == nil {
			res.Previous, _ = version.Parse(current)
		}
	}

	res.Changed = !bytes.Equal(before, after)
	res.Content = string(after)
	res.Files = append(res.Files, linePatch.File())

	p.logger.Infow("patched version line", "file", cfg.File, "line", cfg.Line, "version", composed, "previous", res.Previous, "changed", res.Changed)
	p.logger.Infof("new content of %s:\n%s", cfg.File, res.Content)

	for i, mod := range modifiers {
		err = mod.Apply(reader, writer, composed)
		if err != nil {
			return nil, fmt.Errorf("error applying modifier %q: %w", cfg.Modifiers[i].Type, err)
		}

		p.logger.Infow("applied modifier", "type", cfg.Modifiers[i].Type, "file", mod.File(), "version", composed)
		res.Files = append(res.Files, mod.File())
	}

	return res, nil
}
