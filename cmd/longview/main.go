package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/thall/longview/internal/config"
	"github.com/thall/longview/internal/domain"
	"github.com/thall/longview/internal/output"
	"github.com/thall/longview/internal/projection"
	"github.com/thall/longview/internal/template"
	"github.com/thall/longview/internal/validate"
)

// simpleCLILogger implements projection.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "longview",
	Short: "Multi-phase financial projection CLI",
	Long:  "Template-driven projection of income, tax, expenses and net worth across phases and jurisdictions",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Project all scenarios in a plan document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		engine := projection.NewEngine(template.NewStore(input.Templates...), input.TaxSystems, input.Rates)
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			engine.SetLogger(simpleCLILogger{})
		}

		workers, _ := cmd.Flags().GetInt("workers")
		if workers < 1 {
			workers = runtime.NumCPU()
		}
		results, err := engine.RunAll(context.Background(), input.Scenarios, workers)
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		if err := writeResults(results, input, outputFormat); err != nil {
			log.Fatal(err)
		}

		for _, r := range results {
			if r.Status == domain.StatusFailed {
				os.Exit(1)
			}
		}
	},
}

func writeResults(results []*domain.FinancialScenario, input *config.Input, format string) error {
	switch format {
	case "json":
		data, err := (&output.JSONFormatter{Indent: true}).FormatAll(results)
		if err != nil {
			return err
		}
		fmt.Println(data)
	case "csv":
		cf := &output.CSVFormatter{}
		for _, r := range results {
			data, err := cf.Format(r)
			if err != nil {
				return err
			}
			fmt.Print(data)
		}
	case "table", "":
		tf := &output.TableFormatter{}
		for i, r := range results {
			base := ""
			if i < len(input.Scenarios) {
				base = input.Scenarios[i].Assumptions.BaseCurrency
			}
			fmt.Print(tf.Format(r, base))
			fmt.Println()
		}
	default:
		return fmt.Errorf("unknown output format %q (expected table, csv or json)", format)
	}
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a plan document without projecting it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		validator := validate.New(input.TaxSystems, template.NewStore(input.Templates...))
		failed := false
		for _, sc := range input.Scenarios {
			result := validator.Validate(sc)
			if result.IsValid {
				fmt.Printf("%s: OK", sc.Name)
				if len(result.Warnings) > 0 {
					fmt.Printf(" (%d warnings)", len(result.Warnings))
				}
				fmt.Println()
			} else {
				failed = true
				fmt.Printf("%s: INVALID\n", sc.Name)
				for _, e := range result.Errors {
					fmt.Printf("  %s\n", e)
				}
			}
			for _, w := range result.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "longview %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func main() {
	calculateCmd.Flags().String("format", "table", "Output format: table, csv, json")
	calculateCmd.Flags().Int("workers", 0, "Scenario workers (0 = number of CPUs)")
	calculateCmd.Flags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
