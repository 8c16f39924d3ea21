package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gopkg.microglot.org/odata.go/internal/config"
)

// errFailed is returned when at least one input did not parse. The failures
// have already been written by the time it is returned.
var errFailed = errors.New("one or more inputs failed to parse")

type rootCommand struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)

	configPath string
	flags      config.Config

	conf   config.Config
	logger *logrus.Logger
	cmd    *cobra.Command
}

func newRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer, lookupEnv func(string) (string, bool)) *rootCommand {
	c := &rootCommand{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		lookupEnv: lookupEnv,
	}
	c.cmd = &cobra.Command{
		Use:               "odatauri",
		Short:             "Parse and validate OData URLs",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetIn(stdin)
	c.cmd.SetOut(stdout)
	c.cmd.SetErr(stderr)
	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())

	c.cmd.AddCommand(newParseCmd(c))
	c.cmd.AddCommand(newCheckCmd(c))
	c.cmd.AddCommand(newRulesCmd(c))
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&c.flags.LogLevel, "log-level", "", "log level: panic, fatal, error, warning, info, debug or trace")
	flags.StringVar(&c.flags.LogFormat, "log-format", "", "log format: text or json")
	flags.IntVar(&c.flags.MaxDepth, "max-depth", 0, "maximum rule nesting depth, 0 for unlimited")
	flags.BoolVar(&c.flags.Trace, "trace", false, "log every grammar rule application at debug level")
	return flags
}

// persistentPreRunE resolves the configuration: defaults, then the config
// file, then the environment, then any flag given on the command line.
func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	conf := config.Default()
	if c.configPath != "" {
		file, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		conf = conf.Apply(file)
	}
	env, err := config.FromEnv(c.lookupEnv)
	if err != nil {
		return err
	}
	conf = conf.Apply(env)
	conf = applyFlags(cmd.Flags(), c.flags, conf)
	if err := conf.Validate(); err != nil {
		return err
	}
	c.conf = conf
	c.logger = conf.NewLogger(c.stderr)
	c.logger.WithFields(logrus.Fields{
		"rule":      conf.Rule,
		"max_depth": conf.MaxDepth,
	}).Debug("configuration resolved")
	return nil
}

// applyFlags copies the flags that were explicitly set. Zero is a valid
// value for some of them so Config.Apply cannot be used.
func applyFlags(flags *pflag.FlagSet, values config.Config, conf config.Config) config.Config {
	if flags.Changed("rule") {
		conf.Rule = values.Rule
	}
	if flags.Changed("max-depth") {
		conf.MaxDepth = values.MaxDepth
	}
	if flags.Changed("concurrency") {
		conf.Concurrency = values.Concurrency
	}
	if flags.Changed("log-level") {
		conf.LogLevel = values.LogLevel
	}
	if flags.Changed("log-format") {
		conf.LogFormat = values.LogFormat
	}
	if flags.Changed("trace") {
		conf.Trace = values.Trace
	}
	return conf
}

func (c *rootCommand) execute(ctx context.Context, args []string) error {
	c.cmd.SetArgs(args)
	return c.cmd.ExecuteContext(ctx)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newRootCommand(os.Stdin, os.Stdout, os.Stderr, os.LookupEnv)
	if err := root.execute(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}
