// Command verb drives the trace-based verification flow from the
// command line: it renders verdicts from simulation event logs and
// inspects coverage reports.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cdotrus/verb"
	"github.com/cdotrus/verb/internal/chart"
)

// failExitCode is the documented status for any failing verdict,
// unmet coverage threshold, or empty/malformed log.
const failExitCode = 101

func main() {
	var rootCmd = &cobra.Command{
		Use:   "verb",
		Short: "Trace-based hardware verification utilities",
		Long: `Utilities for the trace-based co-simulation flow: analyze testbench
event logs into a pass/fail verdict and inspect coverage reports
produced by the software model.`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var checkCmd = &cobra.Command{
		Use:   "check <events.log>",
		Short: "Analyze an event log and render the verdict",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := verb.AnalyzeFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
				os.Exit(failExitCode)
			}
			for _, f := range v.Failures {
				printFailure(f)
			}
			fmt.Printf("events: %d  comparisons: %d  passes: %d  failures: %d\n",
				v.Events, v.Comparisons, v.Passes, len(v.Failures))
			if !v.Pass() {
				fmt.Println("verdict: FAIL")
				os.Exit(failExitCode)
			}
			fmt.Println("verdict: PASS")
		},
	}

	var threshold float64
	var coverCmd = &cobra.Command{
		Use:   "cover <coverage.json>",
		Short: "Summarize a coverage report and check it against a threshold",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rep, err := readReport(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "cover failed: %v\n", err)
				os.Exit(failExitCode)
			}
			for _, n := range rep.Nets {
				fmt.Printf("%-8s %s: %d/%d\n", n.Type, n.Name, n.Count, n.Goal)
			}
			if rep.Score == nil {
				fmt.Println("score: N/A (no goals)")
				return
			}
			fmt.Printf("score: %.2f %% (%d/%d goals)\n", *rep.Score, rep.Count, rep.Points)
			if *rep.Score < threshold*100 {
				fmt.Printf("coverage below threshold %.2f %%\n", threshold*100)
				os.Exit(failExitCode)
			}
		},
	}
	coverCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "required coverage ratio in [0,1]")

	var out string
	var chartCmd = &cobra.Command{
		Use:   "chart <coverage.json>",
		Short: "Render a coverage report as an HTML bar chart",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rep, err := readReport(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "chart failed: %v\n", err)
				os.Exit(failExitCode)
			}
			nets := make([]chart.Net, len(rep.Nets))
			for i, n := range rep.Nets {
				pct := 0.0
				if n.Goal > 0 {
					pct = float64(n.Count) / float64(n.Goal) * 100
					if pct > 100 {
						pct = 100
					}
				}
				nets[i] = chart.Net{Name: n.Name, Percent: pct}
			}
			f, err := os.Create(out)
			if err != nil {
				fmt.Fprintf(os.Stderr, "chart failed: %v\n", err)
				os.Exit(failExitCode)
			}
			defer f.Close()
			if err := chart.Render(f, "Coverage Report", nets); err != nil {
				fmt.Fprintf(os.Stderr, "chart failed: %v\n", err)
				os.Exit(failExitCode)
			}
			fmt.Printf("wrote %s\n", out)
		},
	}
	chartCmd.Flags().StringVarP(&out, "output", "o", "coverage.html", "output HTML file")

	rootCmd.AddCommand(checkCmd, coverCmd, chartCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(failExitCode)
	}
}

func printFailure(f verb.Failure) {
	switch f.Reason {
	case verb.ReasonMalformedEvent:
		fmt.Printf("line %d: %s: %q\n", f.Line, f.Reason, f.Raw)
	case verb.ReasonNoEventsObserved:
		fmt.Printf("%s\n", f.Reason)
	default:
		fmt.Printf("step %d: %s: signal %s: expected %s, observed %s\n",
			f.Event.Index, f.Reason, f.Event.Signal, f.Event.Expected, f.Event.Observed)
	}
}

// report mirrors the JSON layout written by coverage.Model.
type report struct {
	Seed       int64     `json:"seed"`
	Iterations int       `json:"iterations"`
	Score      *float64  `json:"score"`
	Met        *bool     `json:"met"`
	Count      int       `json:"count"`
	Points     int       `json:"points"`
	Nets       []netInfo `json:"nets"`
}

type netInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Met   *bool  `json:"met"`
	Count int    `json:"count"`
	Goal  int    `json:"goal"`
}

func readReport(path string) (*report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
