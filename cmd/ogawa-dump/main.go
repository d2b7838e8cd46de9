// Command ogawa-dump inspects Ogawa archives: file header and archive
// tables, the object and property hierarchy, and the raw chunk tree.
package main

import (
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-ogawa/ogawa"
)

const envPrefix = "OGAWA_DUMP"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// dumpConfig holds the settings shared by every subcommand. Each comes from
// a flag, an OGAWA_DUMP_* environment variable or the config file, in that
// order of precedence.
type dumpConfig struct {
	v *viper.Viper
}

func (c *dumpConfig) logger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "log level")
	}
	w := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    c.v.GetBool("no-color"),
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// open opens the archive named by the command's first argument with the
// configured source options.
func (c *dumpConfig) open(cmd *cobra.Command, path string) (*ogawa.Archive, zerolog.Logger, error) {
	log, err := c.logger(cmd)
	if err != nil {
		return nil, log, err
	}

	opts := []ogawa.Option{ogawa.WithLogger(log)}
	if c.v.GetBool("mmap") {
		opts = append(opts, ogawa.WithMmap())
	}
	if pages := c.v.GetInt("cache-pages"); pages > 0 {
		opts = append(opts, ogawa.WithCache(c.v.GetInt("cache-page-size"), pages))
	}

	a, err := ogawa.Open(path, opts...)
	if err != nil {
		return nil, log, errors.Wrapf(err, "open %s", path)
	}
	return a, log, nil
}

func newRootCmd() *cobra.Command {
	cfg := &dumpConfig{v: viper.New()}

	cmd := &cobra.Command{
		Use:          "ogawa-dump",
		Short:        "Inspect Ogawa archives",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.load(cmd.Flags()); err != nil {
				return err
			}
			color.NoColor = color.NoColor || cfg.v.GetBool("no-color")
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.String("config", "", "Config file (yaml, toml or json)")
	fs.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	fs.Bool("no-color", false, "Disable colored output")
	fs.Bool("mmap", false, "Memory-map the archive instead of reading it")
	fs.Int("cache-pages", 0, "Pages in the read cache (0 disables it)")
	fs.Int("cache-page-size", 64<<10, "Read cache page size in bytes")

	cmd.AddCommand(
		newInfoCmd(cfg),
		newObjectsCmd(cfg),
		newChunksCmd(cfg),
		newGetCmd(cfg),
	)

	return cmd
}

func (c *dumpConfig) load(fs *pflag.FlagSet) error {
	if err := c.v.BindPFlags(fs); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if file := c.v.GetString("config"); file != "" {
		c.v.SetConfigFile(file)
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", file)
		}
	}
	return nil
}

var (
	nameColor  = color.New(color.FgCyan)
	kindColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	dimColor   = color.New(color.FgHiBlack)
)
