package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stackmachine/stackshuffle/pkg/emit"
	"github.com/stackmachine/stackshuffle/pkg/scenario"
	"github.com/stackmachine/stackshuffle/pkg/shuffle"
	"github.com/stackmachine/stackshuffle/pkg/stacklayout"
	"github.com/stackmachine/stackshuffle/pkg/trace"
)

var version = "0.1.0"

var (
	scenarioFile string
	scenarioName string
	verbose      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stackshuffle --scenarios <file> [--name <scenario>]",
		Short: "stackshuffle drives the stack-layout transformer over YAML scenario fixtures",
		Long: `stackshuffle loads named current/target stack-layout scenarios from a
YAML file and runs the shuffling transformer over each one, printing the
emitted instruction trace and the resulting layout. It exists to exercise
the transformer end to end against hand-written fixtures rather than to be
a production code-generator driver.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVar(&scenarioFile, "scenarios", "", "path to a YAML scenario fixture file (required)")
	rootCmd.Flags().StringVar(&scenarioName, "name", "", "run only the named scenario (default: run every scenario in the file)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each step decision at debug level")

	return rootCmd
}

func newLogger(errOut io.Writer, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

func runScenarios(out, errOut io.Writer) error {
	if scenarioFile == "" {
		return fmt.Errorf("stackshuffle: --scenarios is required")
	}

	set, err := scenario.Load(scenarioFile)
	if err != nil {
		return fmt.Errorf("stackshuffle: %w", err)
	}

	logger, err := newLogger(errOut, verbose)
	if err != nil {
		return fmt.Errorf("stackshuffle: failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	scenarios := set.Scenarios
	if scenarioName != "" {
		sc, ok := set.ByName(scenarioName)
		if !ok {
			return fmt.Errorf("stackshuffle: no scenario named %q in %s", scenarioName, scenarioFile)
		}
		scenarios = []scenario.Scenario{sc}
	}

	var failed int
	for _, sc := range scenarios {
		if err := runScenario(out, logger, sc); err != nil {
			fmt.Fprintf(errOut, "stackshuffle: scenario %q failed: %v\n", sc.Name, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("stackshuffle: %d of %d scenario(s) failed", failed, len(scenarios))
	}
	return nil
}

func runScenario(out io.Writer, logger *zap.Logger, sc scenario.Scenario) error {
	current := sc.Current.Clone()
	emitter := emit.NewEmitter(current, emit.DefaultProfile)

	adapter := stacklayout.NewAdapter(&current, sc.Target, emitter.Swap, emitter.PushOrDup, emitter.Pop)
	ops := trace.New(adapter, logger)

	shuffleErr := shuffle.Shuffle(ops)
	trace.Summarize(logger, sc.Name, ops.Primitives(), shuffleErr)
	if shuffleErr != nil {
		return shuffleErr
	}
	if err := stacklayout.Tail(&current, sc.Target, emitter.PushOrDup); err != nil {
		return err
	}
	if err := emitter.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "scenario %s:\n", sc.Name)
	emit.NewPrinter(out).PrintTrace(emitter.Trace())
	fmt.Fprintf(out, "  => %s\n", current)
	return nil
}
