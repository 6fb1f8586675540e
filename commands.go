package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smith-xyz/linkgraph/pkg/config"
	"github.com/smith-xyz/linkgraph/pkg/generator"
	"github.com/smith-xyz/linkgraph/pkg/loader"
	"github.com/smith-xyz/linkgraph/pkg/models"
	"github.com/smith-xyz/linkgraph/pkg/output"
	"github.com/smith-xyz/linkgraph/pkg/utils"
	"github.com/smith-xyz/linkgraph/pkg/version"
)

// cliOptions holds the persistent flags shared by every subcommand
type cliOptions struct {
	configPath        string
	buildDir          string
	snapshotFile      string
	format            string
	colorMode         string
	configuration     string
	extraLinkCommands string
	jobs              int
	verbose           bool
	outputToFile      bool
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "linkgraph",
		Short: "Classify direct and transitive link dependencies of build targets",
		Long: `linkgraph reads the codemodel reply of a configured build tree and marks, for every
target, which of its flattened dependencies were requested at the target's own link
declaration. The result is written as JSON (default), msgpack or a text outline.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd, opts, "")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a linkgraph.toml configuration file")
	flags.StringVarP(&opts.buildDir, "build-dir", "B", "", "configured build directory (default: $"+config.EnvBuildDir+" or .)")
	flags.StringVar(&opts.snapshotFile, "snapshot", "", "read a snapshot document instead of a build directory")
	flags.StringVar(&opts.format, "format", "", "output format: json, msgpack or tree")
	flags.StringVar(&opts.colorMode, "color", "", "colorize text output: auto, on or off")
	flags.StringVar(&opts.configuration, "configuration", "", "only read targets of this build configuration")
	flags.StringVar(&opts.extraLinkCommands, "link-commands", "", "comma-separated wrapper commands that declare links")
	flags.IntVar(&opts.jobs, "jobs", 0, "targets classified concurrently")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.outputToFile, "output-file", "o", false, "write output to <build-dir>.linkgraph.<ext> instead of stdout")

	root.AddCommand(
		newClassifyCommand(opts),
		newTreeCommand(opts),
		newExplainCommand(opts),
		newWatchCommand(opts),
		newInitCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newClassifyCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Annotate every target with its direct links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd, opts, "")
		},
	}
}

func newTreeCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print each target followed by its direct links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd, opts, output.FormatTree)
		},
	}
}

func newExplainCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Show how every link fragment of every target was classified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			gen := generator.NewGenerator(logger, cfg)
			input := resolveInput(opts, cfg)

			snapshot, err := gen.Load(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("failed to load snapshot from %s: %w", input, err)
			}
			explanations, err := gen.Explain(snapshot)
			if err != nil {
				return err
			}

			format := cfg.Output.Format
			if !cmd.Flags().Changed("format") && format == output.FormatJSON {
				format = output.FormatTree
			}
			return withOutput(cmd, opts, input, format, func(w io.Writer) error {
				return output.NewWriter(w, format, cfg.Output.Color).WriteExplanations(snapshot, explanations)
			})
		},
	}
}

func newWatchCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reclassify whenever the build tool writes a new reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			input := resolveInput(opts, cfg)
			session, err := generator.NewSession(generator.NewGenerator(logger, cfg), input, cfg.Watch.CacheSize)
			if err != nil {
				return err
			}

			progress := utils.NewVerboseLogger(opts.verbose).WithOutput(cmd.ErrOrStderr())
			progress.DebugLogf("Watching %s every %s\n", input, cfg.Watch.Interval.Duration)
			writer := output.NewWriter(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.Color)
			return session.Watch(cmd.Context(), cfg.Watch.Interval.Duration, func(s *models.Snapshot) error {
				progress.Logf("Snapshot %s: %d targets\n", shortDigest(s.Digest), len(s.Targets))
				return writer.WriteSnapshot(s)
			})
		},
	}
}

func newInitCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Request a codemodel reply on the next configure of the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			path, err := loader.WriteQuery(resolveInput(opts, cfg).BuildDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Query written to %s; re-run the configure step to produce a reply\n", path)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info)
				return nil
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")
	return cmd
}

// runClassify performs one classification pass. forcedFormat overrides the configured format.
func runClassify(cmd *cobra.Command, opts *cliOptions, forcedFormat string) error {
	cfg, logger, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	input := resolveInput(opts, cfg)

	snapshot, err := generator.NewGenerator(logger, cfg).Generate(cmd.Context(), input)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if forcedFormat != "" {
		format = forcedFormat
	}
	return withOutput(cmd, opts, input, format, func(w io.Writer) error {
		return output.NewWriter(w, format, cfg.Output.Color).WriteSnapshot(snapshot)
	})
}

// resolveConfig loads the configuration and applies command-line overrides.
func resolveConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("build-dir") {
		cfg.BuildDir = opts.buildDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.colorMode
	}
	if flags.Changed("configuration") {
		cfg.Loader.Configuration = opts.configuration
	}
	if flags.Changed("jobs") {
		cfg.Classification.Jobs = opts.jobs
	}
	if extra := utils.ParseCommaDelimited(opts.extraLinkCommands); len(extra) > 0 {
		cfg.Classification.ExtraLinkCommands = append(cfg.Classification.ExtraLinkCommands, extra...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, utils.NewLogger(opts.verbose), nil
}

func resolveInput(opts *cliOptions, cfg *config.Config) generator.Input {
	if opts.snapshotFile != "" {
		return generator.Input{SnapshotFile: opts.snapshotFile}
	}
	buildDir := cfg.BuildDir
	if buildDir == "" {
		buildDir = "."
	}
	return generator.Input{BuildDir: buildDir}
}

// withOutput sends output to stdout, or to a derived file name when -o is set.
func withOutput(cmd *cobra.Command, opts *cliOptions, input generator.Input, format string, write func(io.Writer) error) error {
	if !opts.outputToFile {
		return write(cmd.OutOrStdout())
	}

	filename := utils.OutputFilename(input.BuildDir, format)
	file, err := utils.SafeCreateFile(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", filename, err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return fmt.Errorf("failed to write output to %s: %w", filename, err)
	}
	fmt.Fprintf(os.Stderr, "Link graph successfully written to: %s\n", filename)
	return nil
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
