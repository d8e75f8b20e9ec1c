package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexandrkozlov/cow/pkg/logging"
	"github.com/alexandrkozlov/cow/pkg/scenario"
)

// runCmd executes a scenario file.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario file against a fresh vector",
	Example: `  # Run a scenario with default logging
  cow run scenario.yaml

  # Step-by-step trace
  cow run --log-level debug scenario.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: cmd.ErrOrStderr(),
	})

	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	res, err := scenario.NewRunner(log).Run(s)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.OK() {
		for _, failure := range res.Failures {
			fmt.Fprintln(out, "FAIL:", failure)
		}
		return fmt.Errorf("scenario %q: %d expectation(s) failed", res.Scenario, len(res.Failures))
	}

	fmt.Fprintf(out, "scenario %q passed (%d steps, run %s)\n", res.Scenario, res.Steps, res.RunID)
	return nil
}
