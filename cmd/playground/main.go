package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/playground/internal/logging"
	"github.com/cognicore/playground/pkg/playground"
	"github.com/cognicore/playground/pkg/playground/config"
	"github.com/cognicore/playground/pkg/playground/facts"
	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/metrics"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	loader   config.Loader
	verbose  bool
	logger   *zap.Logger
	registry *prometheus.Registry
	pg       *playground.Playground
	in       io.Reader
	out      io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	rootCmd := &cobra.Command{
		Use:   "playground",
		Short: "Symbolic reasoning playground",
		Long: `A small symbolic reasoning engine over a knowledge base of typed relations.

Relations "is", "has" and "uses" drive three rules: transitive "is" checks,
attribute verification (data quality) and sensitive data source use (data privacy).

Run without arguments to start the interactive loop.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd.Context())
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.loader.ConfigPath, "config", "", "Config file (YAML)")
	flags.StringVar(&a.loader.SeedPath, "seed", "", "Seed knowledge file (YAML)")
	flags.StringVar(&a.loader.FactsPath, "facts", "", "Seed knowledge file (fact lines)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question, e.g. \"Dog is Animal\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ask(cmd.Context(), strings.Join(args, " "))
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd.Context())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the loaded knowledge as fact lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd.Context())
		},
	}

	rootCmd.AddCommand(askCmd, replCmd, showCmd)
	return rootCmd
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	comp, err := a.loader.Load()
	if err != nil {
		return err
	}

	level := comp.Config.Log.Level
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level, comp.Config.Log.Development)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	m, err := metrics.New(a.registry)
	if err != nil {
		return err
	}

	a.pg, err = buildPlayground(ctx, comp, a.logger, m)
	return err
}

func (a *app) teardown() {
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.logger.Warn("Closing knowledge store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// buildPlayground opens a session and applies seed knowledge.
func buildPlayground(ctx context.Context, comp *config.Components, logger *zap.Logger, m *metrics.Collector) (*playground.Playground, error) {
	pg, err := playground.Open(ctx, comp.Config, logger, m)
	if err != nil {
		return nil, err
	}
	if err := pg.Seed(ctx, comp.Seed); err != nil {
		pg.Close()
		return nil, err
	}
	if err := pg.LoadFacts(ctx, comp.Facts); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func (a *app) ask(ctx context.Context, question string) error {
	results, err := a.pg.Ask(ctx, question)
	cutOff := errors.Is(err, internalerr.ErrDepthExceeded)
	if err != nil && !cutOff {
		return fmt.Errorf("infer: %w", err)
	}
	for _, line := range playground.Lines(results) {
		fmt.Fprintln(a.out, line)
	}
	if cutOff {
		fmt.Fprintln(a.out, playground.CutOff)
	}
	return nil
}

func (a *app) show(ctx context.Context) error {
	k, err := a.pg.Knowledge(ctx)
	if err != nil {
		return err
	}
	exp := &facts.Exporter{Writer: facts.IOWriter{W: a.out}}
	return exp.Export(ctx, k)
}

const replHelp = `Commands:
  add <concept> <relation> <concept>   add a relation
  prop <source> <property>             add a data source property (source has property)
  concept <name>                       add a concept
  ask <question>                       ask explicitly (same as typing the question)
  show                                 print current knowledge
  rules                                print current rules
  stats                                print query counters
  help                                 this text
  quit                                 leave
Anything else is a question, e.g. "Dog is Animal". A command word with a
different number of terms is a question too ("quit is Thing"); prefix a
question with "ask" to be explicit.`

func (a *app) repl(ctx context.Context) error {
	fmt.Fprintln(a.out, "===========================================")
	fmt.Fprintln(a.out, "  Symbolic Reasoning Playground")
	fmt.Fprintln(a.out, "===========================================")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Type a question or \"help\" (Ctrl+D to exit):")
	fmt.Fprintln(a.out)

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := a.handle(ctx, line)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
		if quit {
			break
		}
	}

	fmt.Fprintln(a.out, "\nGoodbye!")
	return scanner.Err()
}

// commandArgs is the argument count of each REPL command. A line whose
// first word is a command but whose argument count differs is a question.
var commandArgs = map[string]int{
	"quit":    0,
	"exit":    0,
	"help":    0,
	"show":    0,
	"rules":   0,
	"stats":   0,
	"concept": 1,
	"prop":    2,
	"add":     3,
}

// handle runs one REPL line and reports whether the loop should stop.
func (a *app) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	if cmd == "ask" {
		return false, a.ask(ctx, strings.Join(args, " "))
	}
	if n, ok := commandArgs[cmd]; !ok || n != len(args) {
		return false, a.ask(ctx, line)
	}

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(a.out, replHelp)
	case "add":
		if err := a.pg.AddRelation(ctx, args[0], args[1], args[2]); err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Relation added: %s %s %s\n", args[0], args[1], args[2])
	case "prop":
		if err := a.pg.AddProperty(ctx, args[0], args[1]); err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Property added: %s has %s\n", args[0], args[1])
	case "concept":
		if err := a.pg.AddConcept(ctx, args[0]); err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Concept added: %s\n", args[0])
	case "show":
		return false, a.show(ctx)
	case "rules":
		for i, r := range a.pg.Rules() {
			fmt.Fprintf(a.out, "  %d. %s\n", i+1, r)
		}
	case "stats":
		return false, a.stats()
	}
	return false, nil
}

func (a *app) stats() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", l.GetName(), l.GetValue())
			}
			fmt.Fprintf(a.out, "  %s: %.0f\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
