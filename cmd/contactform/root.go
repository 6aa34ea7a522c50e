package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/config"
	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

// app carries state shared by subcommands for one invocation.
type app struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
	logger     *zap.Logger

	// promptDriver replaces the survey prompts; tests set it.
	promptDriver tui.PromptDriver
}

func newApp() *app {
	return &app{}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "contactform",
		Short: "Contact form with inline validation",
		Long: `contactform renders a four-field contact form (first name, last name,
email, message), validates it as the user types, and shows the submitted
values back once every required field passes.

Configuration is read from contactform.yaml in the working directory (or
--config), overridden by CONTACTFORM_* environment variables and flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./contactform.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log encoding (console, json)")
	flags.String("content", "", "form copy file (YAML or JSON)")

	root.AddCommand(
		newServeCmd(a),
		newPromptCmd(a),
		newRenderCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	bindings := map[string]string{
		"log.level":     "log-level",
		"log.format":    "log-format",
		"content.path":  "content",
		"content.watch": "watch",
		"server.host":   "host",
		"server.port":   "port",
	}
	for key, name := range bindings {
		if err := bindFlag(v, key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.v = v
	a.cfg = cfg
	a.logger = logger
	return nil
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("bind flag %s: %w", flag.Name, err)
	}
	return nil
}

func (a *app) loadContent() (content.Content, error) {
	text, err := content.LoadFile(a.cfg.Content.Path)
	if err != nil {
		return content.Content{}, err
	}
	return text, nil
}

func writeOutput(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
