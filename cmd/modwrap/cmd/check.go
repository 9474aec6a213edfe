package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

var checkTypes string

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <path> <function>",
	Short: "Validate a function's parameter types",
	Long: `Load the module at the given path and validate the named function
against asserted parameter types, given as a JSON object of parameter name
to Go type. Only asserted parameters are checked; parameters declared any
pass regardless of the assertion.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkTypes, "types", "", "expected types as a JSON object, e.g. '{\"command\": \"string\"}'")
	checkCmd.MarkFlagRequired("types")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, fnName := args[0], args[1]

	asserts, err := parseTypeAssertions(checkTypes)
	if err != nil {
		return fmt.Errorf("invalid --types JSON: %w", err)
	}

	w, err := modwrap.NewWithOptions(path, LoadOptions())
	if err != nil {
		return err
	}

	if err := w.ValidateSignature(fnName, asserts); err != nil {
		return err
	}

	if IsJSONOutput() {
		fmt.Println(`{"valid": true}`)
		return nil
	}
	fmt.Printf("%s: signature ok\n", fnName)
	return nil
}

// parseTypeAssertions decodes a JSON object of parameter name to type
// name, preserving the order the keys appear in the document so that
// assertions are checked in the caller's order.
func parseTypeAssertions(s string) ([]modwrap.TypeAssertion, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var asserts []modwrap.TypeAssertion
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("type for %q must be a string", key)
		}

		asserts = append(asserts, modwrap.TypeAssertion{Param: key, Type: val})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return asserts, nil
}
