package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <path>",
	Short: "Classify the imports of a module",
	Long: `Parse the module at the given path, without executing it, and classify
its imports. Standard library imports are available to loaded modules;
third-party imports are not and will make the module fail to load.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	report, err := modwrap.Dependencies(args[0])
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if IsYAMLOutput() {
		output, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(output))
		return nil
	}

	if len(report.Stdlib) == 0 && len(report.ThirdParty) == 0 {
		fmt.Println("No imports")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Import", "Class", "Status")

	for _, imp := range report.Stdlib {
		table.Append(imp, "stdlib", "available")
	}
	for _, imp := range report.ThirdParty {
		table.Append(imp, "third-party", "unresolved")
	}

	table.Render()
	return nil
}
