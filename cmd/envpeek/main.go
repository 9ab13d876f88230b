package main

import (
	"fmt"
	"os"

	"github.com/jenian/envpeek/internal/config"
	"github.com/jenian/envpeek/internal/envfile"
	"github.com/jenian/envpeek/internal/logger"
	"github.com/jenian/envpeek/internal/output"
	"github.com/jenian/envpeek/internal/probe"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "envpeek",
		Short: "Load .env and print one environment variable",
		Long: `Loads variables from a .env file in the current directory into the environment,
then prints the value of one variable (GEMINI_API_KEY unless configured otherwise).
Variables that are already set are not overridden.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShow,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a " + config.FileName + " file in the current directory",
		Long:  "Creates a " + config.FileName + " file with default configuration in the current directory.",
		Args:  cobra.NoArgs,
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of envpeek",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}

	// Flags
	keyName       string
	envFiles      []string
	override      bool
	searchParents bool
	label         string
	placeholder   string
	jsonOutput    bool
	redact        bool
	strict        bool
	debug         bool
)

func init() {
	rootCmd.Flags().StringVarP(&keyName, "key", "k", "", "Variable to print (default "+config.DefaultKey+")")
	rootCmd.Flags().StringArrayVar(&envFiles, "env-file", nil, "Env file to load, repeatable (default "+config.DefaultEnvFile+")")
	rootCmd.Flags().BoolVar(&override, "override", false, "Let env file values replace variables that are already set")
	rootCmd.Flags().BoolVar(&searchParents, "search-parents", false, "Look for env files in parent directories too")
	rootCmd.Flags().StringVar(&label, "label", "", "Label printed before the value (default \""+config.DefaultLabel+"\")")
	rootCmd.Flags().StringVar(&placeholder, "placeholder", "", "Text printed when the variable is not set (default "+config.DefaultPlaceholder+")")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")
	rootCmd.Flags().BoolVar(&redact, "redact", false, "Mask the value")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit with code 1 when the variable is not set")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagConfig collects command-line values; unset flags stay zero so lower layers apply
func flagConfig() *config.Config {
	return &config.Config{
		Key:         keyName,
		EnvFiles:    envFiles,
		Label:       label,
		Placeholder: placeholder,
	}
}

// explicitBools sets the boolean settings whose flags were given, true or false
func explicitBools(flags *pflag.FlagSet) func(*config.Config) {
	return func(cfg *config.Config) {
		bools := []struct {
			name  string
			value bool
			dst   *bool
		}{
			{"override", override, &cfg.Override},
			{"search-parents", searchParents, &cfg.SearchParents},
			{"json", jsonOutput, &cfg.JSON},
			{"redact", redact, &cfg.Redact},
			{"strict", strict, &cfg.Strict},
			{"debug", debug, &cfg.Debug},
		}
		for _, b := range bools {
			if flags.Changed(b.name) {
				*b.dst = b.value
			}
		}
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	log := logger.New(cmd.ErrOrStderr(), debug)

	wd, err := os.Getwd()
	if err != nil {
		log.Warn().Err(err).Msg("cannot determine working directory, using .")
		wd = "."
	}

	cfg, err := config.Load(config.Sources{
		Root:     wd,
		Flags:    flagConfig(),
		Explicit: explicitBools(cmd.Flags()),
	})
	if err != nil {
		if cfg == nil {
			return err
		}
		// Continue with what could be loaded
		log.Warn().Err(err).Msg("ignoring unusable settings")
	}
	if cfg.Debug != debug {
		log = logger.New(cmd.ErrOrStderr(), cfg.Debug)
	}

	loader := envfile.NewLoader()
	loader.SetEnvFiles(cfg.EnvFiles)
	loader.SetOverride(cfg.Override)
	loader.SetSearchParents(cfg.SearchParents)
	loader.SetLogger(log.With("component", "envfile"))

	lookup, err := probe.Run(loader, wd, cfg.Key)
	if err != nil {
		log.Warn().Err(err).Msg("env files not loaded")
		lookup = probe.Get(loader.Env(), cfg.Key, nil)
	}

	log.Debug().
		Str("key", lookup.Key).
		Bool("set", lookup.Set).
		Str("source", lookup.Source).
		Msg("lookup complete")

	opts := output.Options{
		Label:       cfg.Label,
		Placeholder: cfg.Placeholder,
		JSON:        cfg.JSON,
		Redact:      cfg.Redact,
	}
	if err := output.Format(cmd.OutOrStdout(), lookup, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if cfg.Strict {
		return lookup.Require()
	}
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}

	if _, err := config.WriteTemplate(wd); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s in the current directory\n", config.FileName)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
