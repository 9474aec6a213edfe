package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List the callables of a module",
	Long: `Load the module at the given path and list every top-level function
with its parameter signature. Parameters declared any are shown as untyped.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	w, err := modwrap.NewWithOptions(args[0], LoadOptions())
	if err != nil {
		return err
	}

	sigs := w.ListCallables()

	if IsJSONOutput() {
		output, err := json.MarshalIndent(sigs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if IsYAMLOutput() {
		output, err := yaml.Marshal(sigs)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(output))
		return nil
	}

	if len(sigs) == 0 {
		fmt.Println("No callables found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Function", "Signature", "Returns")

	for _, sig := range sigs {
		table.Append(sig.Name, signatureString(sig), strings.Join(sig.Returns, ", "))
	}

	table.Render()
	fmt.Printf("\nTotal callables: %d\n", len(sigs))
	return nil
}

// signatureString renders a signature as name:type pairs, with untyped
// parameters labelled as such.
func signatureString(sig modwrap.Signature) string {
	if len(sig.Params) == 0 {
		return "()"
	}
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		label := p.Type
		if p.Untyped() {
			label = "untyped"
		}
		parts = append(parts, p.Name+":"+label)
	}
	return strings.Join(parts, ", ")
}
