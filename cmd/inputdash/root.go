package main

import (
	"fmt"
	"os"
	"path/filepath"

	"inputdash/internal/api"
	"inputdash/internal/config"
	"inputdash/internal/demo"
	"inputdash/internal/logging"
	"inputdash/internal/session"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli is the state shared by every command.
type cli struct {
	cfg config.Client

	jsonOutput bool
	yamlOutput bool
	demoMode   bool
	apiURL     string
	logLevel   string

	log     *zap.Logger
	backend api.Backend
	session *session.Session
}

func newRootCmd(cfg config.Client) *cobra.Command {
	c := &cli{cfg: cfg, log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "inputdash",
		Short:         "Triage unstructured inputs: submit, classify, review, close",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Sync()
		},
	}
	cmd.Version = version

	flags := cmd.PersistentFlags()
	flags.BoolVar(&c.jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&c.yamlOutput, "yaml", false, "output YAML")
	flags.BoolVar(&c.demoMode, "demo", cfg.DemoMode, "use the local demo store instead of the API")
	flags.StringVar(&c.apiURL, "api-url", "", "API base URL (default from config)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	cmd.AddCommand(
		newLoginCmd(c),
		newRegisterCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newSubmitCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newEditCmd(c),
		newDoneCmd(c),
		newDeleteCmd(c),
		newDashboardCmd(c),
		newConfigCmd(c),
		newDemoCmd(c),
	)
	return cmd
}

func (c *cli) init(cmd *cobra.Command) error {
	level := c.cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	log, err := logging.NewCLI(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	c.log = log

	if c.apiURL != "" {
		c.cfg.APIURL = c.apiURL
	}
	c.cfg.DemoMode = c.demoMode

	if c.cfg.DemoMode {
		c.backend = demo.NewStore(filepath.Join(c.cfg.Dir, demo.DataFileName))
	} else {
		c.backend = api.NewClient(c.cfg.APIURL, c.cfg.HTTPTimeout())
	}

	sess, err := session.Load(c.cfg.CredentialsPath(), c.cfg.DemoMode)
	if err != nil {
		return err
	}
	c.session = sess
	sess.Apply(c.backend)

	c.log.Debug("client ready",
		zap.String("command", cmd.CommandPath()),
		zap.Bool("demo", c.cfg.DemoMode),
		zap.String("api_url", c.cfg.APIURL),
		zap.String("token_source", sess.Source()))
	return nil
}

// authed returns the backend once a token is present.
func (c *cli) authed() (api.Backend, error) {
	if err := c.session.Require(); err != nil {
		return nil, err
	}
	return c.backend, nil
}

// interactive reports whether the command reads from a terminal.
func interactive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
