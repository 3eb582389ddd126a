package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-playground/validator/v10"
	"github.com/metal-stack/patch-version/pkg/actions"
	"github.com/metal-stack/patch-version/pkg/config"
	"github.com/metal-stack/patch-version/pkg/git"
	"github.com/metal-stack/patch-version/pkg/patcher"
	"github.com/metal-stack/v"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	moduleName = "patch-version"
	envPrefix  = "PATCH_VERSION"
)

// Opts is required in order to have proper validation for args from cobra and viper.
// this is because MarkFlagRequired from cobra does not work well with viper, see:
// https://github.com/spf13/viper/issues/397
type Opts struct {
	PackageInitFile string `validate:"required"`
	IsAlpha         string `validate:"required"`
	IsBeta          string `validate:"required"`
	Version         string `validate:"required"`
	Line            int    `validate:"min=1"`
	Template        string `validate:"required,contains=%s"`

	Commit        bool
	CommitMessage string `validate:"contains=%s"`
	AuthorName    string
	AuthorEmail   string
}

// inputs maps flags to the names of the inputs of the github action, which are passed
// to the process as INPUT_<NAME> environment variables.
var inputs = map[string]string{
	"package-init-file": "packageInitFile",
	"is-alpha":          "isAlpha",
	"is-beta":           "isBeta",
	"version-number":    "version",
	"line":              "line",
	"template":          "template",
	"commit":            "commit",
	"commit-message":    "commitMessage",
}

type cli struct {
	v        *viper.Viper
	logger   *zap.SugaredLogger
	reporter *actions.Reporter
	cfgFile  string
}

func main() {
	os.Exit(execute(os.Args[1:], actions.NewReporter(), nil))
}

// execute runs the command and returns the exit code of the process. Without a logger,
// one is built from the log-level flag.
func execute(args []string, reporter *actions.Reporter, logger *zap.SugaredLogger) int {
	c := &cli{
		v:        viper.New(),
		logger:   logger,
		reporter: reporter,
	}

	cmd, err := c.newCommand()
	if err != nil {
		log.Printf("unable to construct root command: %v", err)
		return 1
	}
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		reporter.Fail(err)
		if c.logger == nil {
			log.Printf("an error occurred: %v", err)
			return 1
		}
		c.logger.Errorw("an error occurred", "error", err)
		return 1
	}

	return 0
}

func (c *cli) newCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           moduleName,
		Short:         "patches the version declaration of a python package in ci pipelines",
		Version:       v.V.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.initConfig()
			if err != nil {
				return err
			}
			if c.logger == nil {
				err = c.initLogging()
				if err != nil {
					return err
				}
			}
			opts, err := c.initOpts()
			if err != nil {
				return fmt.Errorf("unable to init options: %w", err)
			}
			return c.run(opts)
		},
	}

	cmd.PersistentFlags().StringP("log-level", "", "info", "sets the application log level")
	cmd.Flags().StringVarP(&c.cfgFile, "config", "c", "", "path to a config file with additional modifiers")

	cmd.Flags().StringP("package-init-file", "f", "", "the file containing the version declaration")
	cmd.Flags().StringP("is-alpha", "", "", "appends the alpha suffix, any value other than \"false\" is true")
	cmd.Flags().StringP("is-beta", "", "", "appends the beta suffix, any value other than \"false\" is true")
	cmd.Flags().StringP("version-number", "", "", "the raw version to write")
	cmd.Flags().IntP("line", "l", config.DefaultLine, "the line of the version declaration, starting at 1")
	cmd.Flags().StringP("template", "", config.DefaultTemplate, "the template of the version declaration")

	cmd.Flags().Bool("commit", false, "commits the patched files to the surrounding git repository")
	cmd.Flags().String("commit-message", config.DefaultCommitMessage, "the commit message template")
	cmd.Flags().String("author-name", "", "the commit author name")
	cmd.Flags().String("author-email", "", "the commit author email")

	err := c.v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	err = c.v.BindPFlags(cmd.PersistentFlags())
	if err != nil {
		return nil, err
	}

	return cmd, nil
}

func (c *cli) initConfig() error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	for key, input := range inputs {
		err := c.v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")), "INPUT_"+strings.ToUpper(input))
		if err != nil {
			return fmt.Errorf("unable to bind input %s: %w", input, err)
		}
	}

	return nil
}

func (c *cli) initLogging() error {
	level := zap.InfoLevel

	if c.v.IsSet("log-level") {
		err := level.UnmarshalText([]byte(c.v.GetString("log-level")))
		if err != nil {
			return fmt.Errorf("can't initialize zap logger: %w", err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	c.logger = l.Sugar()

	return nil
}

func (c *cli) initOpts() (*Opts, error) {
	// an empty action input arrives as an empty environment variable, which viper ignores
	line, err := strconv.Atoi(strings.TrimSpace(c.v.GetString("line")))
	if err != nil {
		return nil, fmt.Errorf("line must be a number: %w", err)
	}

	opts := &Opts{
		PackageInitFile: c.v.GetString("package-init-file"),
		IsAlpha:         strings.TrimSpace(c.v.GetString("is-alpha")),
		IsBeta:          strings.TrimSpace(c.v.GetString("is-beta")),
		Version:         c.v.GetString("version-number"),
		Line:            line,
		Template:        c.v.GetString("template"),

		Commit:        c.v.GetBool("commit"),
		CommitMessage: c.v.GetString("commit-message"),
		AuthorName:    c.v.GetString("author-name"),
		AuthorEmail:   c.v.GetString("author-email"),
	}

	validate := validator.New()
	err = validate.Struct(opts)
	if err != nil {
		return nil, err
	}

	return opts, nil
}

func (c *cli) run(opts *Opts) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg := config.Configuration{
		File:          opts.PackageInitFile,
		Alpha:         config.Flag(opts.IsAlpha),
		Beta:          config.Flag(opts.IsBeta),
		Version:       opts.Version,
		Line:          opts.Line,
		Template:      opts.Template,
		Commit:        opts.Commit,
		CommitMessage: opts.CommitMessage,
	}

	if c.cfgFile != "" {
		f, err := config.New(c.cfgFile)
		if err != nil {
			return fmt.Errorf("config file path set explicitly, but unreadable: %w", err)
		}
		cfg.Modifiers = f.Modifiers
	}

	cfg = cfg.Resolve(wd)

	c.logger.Infow("patching version", "version", v.V.String(), "file", cfg.File, "line", cfg.Line, "alpha", cfg.Alpha, "beta", cfg.Beta, "modifiers", cfg.Modifiers.String())

	// paths are absolute, the target may live outside of the working directory
	res, err := patcher.New(c.logger.Named("patcher"), osfs.New("/")).Patch(cfg)
	if err != nil {
		return err
	}

	outputs := map[string]string{
		"version": res.Version,
		"changed": strconv.FormatBool(res.Changed),
	}

	if cfg.Commit {
		hash, err := git.Commit(wd, res.Files, fmt.Sprintf(cfg.CommitMessage, res.Version), git.Author{
			Name:  opts.AuthorName,
			Email: opts.AuthorEmail,
		})
		switch {
		case errors.Is(err, git.NoChangesError):
			c.logger.Infow("nothing to commit, version already up to date", "version", res.Version)
		case err != nil:
			return err
		default:
			c.logger.Infow("committed patched files", "commit", hash, "files", res.Files)
			outputs["commit"] = hash
		}
	}

	if !c.reporter.Outputs(outputs) {
		c.logger.Infow("no step output file available, skipping outputs", "outputs", outputs)
	}

	return nil
}
