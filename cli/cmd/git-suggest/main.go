package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"gitsuggest/cli/internal/config"
	"gitsuggest/cli/internal/diff"
	"gitsuggest/cli/internal/erruser"
	"gitsuggest/cli/internal/git"
	"gitsuggest/cli/internal/highlight"
	"gitsuggest/cli/internal/interactive"
	"gitsuggest/cli/internal/ollama"
	"gitsuggest/cli/internal/run"
	"gitsuggest/cli/internal/tokens"
	"gitsuggest/cli/internal/version"
)

// errExit is an error that carries an exit code for the CLI. Use errors.As to detect it.
type errExit int

func (e errExit) Error() string {
	return "exit " + strconv.Itoa(int(e))
}

// streams are the CLI's standard streams and environment. A nil env means os.Environ().
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
	env []string
}

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI. It is exported for testing.
func Run() int {
	return runCLI(os.Args[1:])
}

func runCLI(args []string) int {
	return execute(args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func execute(args []string, s streams) int {
	rootCmd := newRootCmd(s)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)
	if err := rootCmd.Execute(); err != nil {
		var exitErr errExit
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		printError(s.err, err)
		return 1
	}
	return 0
}

// printError writes the user-facing message, then the cause as "Details: ..."
// and any recovery hint.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	if u := errors.Unwrap(err); u != nil {
		fmt.Fprintf(w, "Details: %v\n", u)
	}
	if hint := erruser.HintOf(err); hint != "" {
		fmt.Fprintf(w, "\n%s\n", hint)
	}
}

func newRootCmd(s streams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-suggest",
		Short: "AI-powered git commit message generator",
		Long: `Summarizes the staged changes, asks a model (Gemini or a local Ollama)
for a Conventional Commits message, and commits with it.`,
		Example: `  git-suggest                    # Generate and commit with AI message
  git-suggest --dry-run          # Show message without committing
  git-suggest --interactive      # Review message before committing
  git-suggest --config ~/.myconfig.yml  # Use custom config file
  git-suggest summary            # Show what would be sent to the model`,
		Version: version.String(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, s)
		},
	}
	rootCmd.SetVersionTemplate("git-suggest {{.Version}}\n")
	rootCmd.Flags().BoolP("dry-run", "d", false, "Generate message without committing")
	rootCmd.Flags().BoolP("interactive", "i", false, "Review and optionally edit message before committing")
	rootCmd.Flags().Bool("copy", false, "Copy the final message to the clipboard")
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "Path to custom configuration file (.yml or .toml)")
	pf.Bool("verbose", false, "Enable verbose output for debugging")
	pf.String("provider", "", "Model provider: gemini or ollama (overrides config and env)")
	pf.String("model", "", "Model name (overrides config and env)")
	pf.StringP("dir", "C", "", "Run as if started in this directory")
	rootCmd.AddCommand(newSummaryCmd(s))
	rootCmd.AddCommand(newDoctorCmd(s))
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd
}

// overridesFromFlags returns Overrides for provider and model when the corresponding flags were set.
func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	providerChanged := cmd.Flags().Changed("provider")
	modelChanged := cmd.Flags().Changed("model")
	if !providerChanged && !modelChanged {
		return nil
	}
	o := &config.Overrides{}
	if providerChanged {
		v, _ := cmd.Flags().GetString("provider")
		o.Provider = &v
	}
	if modelChanged {
		v, _ := cmd.Flags().GetString("model")
		o.Model = &v
	}
	return o
}

func workDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", erruser.New("Could not determine current directory.", err)
	}
	return cwd, nil
}

func loadConfig(cmd *cobra.Command, s streams, workDir, repoRoot string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(cmd.Context(), config.LoadOptions{
		WorkDir:    workDir,
		RepoRoot:   repoRoot,
		ConfigPath: path,
		Env:        s.env,
		Overrides:  overridesFromFlags(cmd),
	})
}

// openRepo opens the repository containing the working directory and loads its config.
func openRepo(cmd *cobra.Command, s streams) (*git.Repo, *config.Config, error) {
	dir, err := workDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	repo, err := git.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(cmd, s, dir, repo.Root)
	if err != nil {
		return nil, nil, err
	}
	return repo, cfg, nil
}

func traceWriter(cmd *cobra.Command, s streams) io.Writer {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return s.err
	}
	return nil
}

func runSuggest(cmd *cobra.Command, s streams) error {
	repo, cfg, err := openRepo(cmd, s)
	if err != nil {
		return err
	}
	gen, err := run.NewGenerator(cmd.Context(), cfg, s.env, nil)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	interactiveMode, _ := cmd.Flags().GetBool("interactive")
	copyMsg, _ := cmd.Flags().GetBool("copy")
	opts := run.Options{
		Collector:      repo,
		Generator:      gen,
		Committer:      repo,
		Summarize:      cfg.SummarizeOptions(),
		MaxPromptChars: cfg.MaxPromptChars,
		Budget:         tokens.Budget{ContextLimit: cfg.ContextLimit, WarnThreshold: cfg.WarnThreshold},
		DryRun:         dryRun,
		Interactive:    interactiveMode,
		Copy:           copyMsg,
		Clipboard:      clipboard.WriteAll,
		Out:            s.out,
		Err:            s.err,
		TraceOut:       traceWriter(cmd, s),
	}
	if interactiveMode {
		opts.Reviewer = interactive.New(s.in, s.out)
	}
	_, err = run.Run(cmd.Context(), opts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, run.ErrNoStagedChanges):
		fmt.Fprintln(s.err, err.Error())
		return nil
	case errors.Is(err, run.ErrAborted):
		fmt.Fprintln(s.out, err.Error())
		return nil
	case errors.Is(err, ollama.ErrUnreachable):
		fmt.Fprintf(s.err, "Ollama unreachable at %s. Is the server running? For local: ollama serve.\n", cfg.OllamaBaseURL)
		fmt.Fprintf(s.err, "Details: %v\n", err)
		return errExit(1)
	default:
		return err
	}
}

func newSummaryCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary of the staged changes that would be sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, s)
		},
	}
	cmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
	return cmd
}

func runSummary(cmd *cobra.Command, s streams) error {
	repo, cfg, err := openRepo(cmd, s)
	if err != nil {
		return err
	}
	changes, err := repo.StagedChanges(cmd.Context())
	if err != nil {
		return err
	}
	if changes.Empty() {
		fmt.Fprintln(s.err, run.ErrNoStagedChanges.Error())
		return nil
	}
	text := cfg.SummarizeOptions().Summarize(changes.NameStatus, changes.Stat, changes.FullDiff)
	noColor, _ := cmd.Flags().GetBool("no-color")
	if !noColor && interactive.IsTerminal(s.out) {
		if err := highlight.Diff(s.out, text+"\n"); err != nil {
			return erruser.New("Could not highlight the summary.", err)
		}
	} else {
		fmt.Fprintln(s.out, text)
	}

	stats, err := diff.Stats(changes.FullDiff)
	if err != nil {
		fmt.Fprintf(s.err, "Diffstat unavailable: %v\n", err)
		return nil
	}
	files, added, deleted := diff.Totals(stats)
	fmt.Fprintf(s.err, "%d file(s) changed, %d insertion(s)(+), %d deletion(s)(-); summary is ~%d tokens\n",
		files, added, deleted, tokens.Estimate(text))
	return nil
}

func newDoctorCmd(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Verify environment (Git, provider, model)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, s)
		},
	}
}

func runDoctor(cmd *cobra.Command, s streams) error {
	dir, err := workDir(cmd)
	if err != nil {
		return err
	}
	repoRoot := ""
	if r, e := git.RepoRoot(dir); e == nil {
		repoRoot = r
		fmt.Fprintf(s.out, "Repository: %s\n", repoRoot)
	} else {
		fmt.Fprintln(s.out, "Repository: none (run git-suggest inside a Git repository)")
	}
	cfg, err := loadConfig(cmd, s, dir, repoRoot)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Provider: %s\n", cfg.Provider)
	fmt.Fprintf(s.out, "Model: %s\n", cfg.Model)
	fmt.Fprintf(s.out, "Timeout: %s\n", cfg.Timeout)

	switch cfg.Provider {
	case config.ProviderOllama:
		client := ollama.NewClient(cfg.OllamaBaseURL, nil)
		result, err := client.Check(cmd.Context(), cfg.Model)
		if err != nil {
			if errors.Is(err, ollama.ErrUnreachable) {
				fmt.Fprintf(s.err, "Ollama unreachable at %s. Is the server running? For local: ollama serve.\n", cfg.OllamaBaseURL)
				fmt.Fprintf(s.err, "Details: %v\n", err)
				return errExit(1)
			}
			fmt.Fprintln(s.err, err.Error())
			return errExit(1)
		}
		if !result.ModelPresent {
			fmt.Fprintf(s.err, "Model %q not found. Pull it with: ollama pull %s\n", cfg.Model, cfg.Model)
			return errExit(1)
		}
		fmt.Fprintln(s.out, "Ollama OK")
	default:
		if cfg.APIKey(s.env) == "" {
			return erruser.WithHint("API key not found.",
				fmt.Sprintf("Set the '%s' environment variable to your Gemini API key.", cfg.APIKeyEnv), nil)
		}
		fmt.Fprintf(s.out, "Gemini API key: set (%s)\n", cfg.APIKeyEnv)
	}
	return nil
}
