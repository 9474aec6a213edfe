package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

var callKwargs string

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <path> <function> [args...]",
	Short: "Invoke a function of a module",
	Long: `Load the module at the given path, retrieve the named top-level
function and invoke it. Arguments are either positional strings, converted
to the declared parameter types, or a single JSON object passed with
--kwargs and matched to parameters by name.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVar(&callKwargs, "kwargs", "", "arguments as a JSON object of parameter name to value")
}

func runCall(cmd *cobra.Command, args []string) error {
	path, fnName := args[0], args[1]
	positional := args[2:]

	// Kwargs are parsed before the module is loaded, so malformed JSON
	// never executes anything.
	var kwargs map[string]json.RawMessage
	if callKwargs != "" {
		if len(positional) > 0 {
			return fmt.Errorf("cannot combine positional arguments with --kwargs")
		}
		if err := json.Unmarshal([]byte(callKwargs), &kwargs); err != nil {
			return fmt.Errorf("invalid --kwargs JSON: %w", err)
		}
	}

	w, err := modwrap.NewWithOptions(path, LoadOptions())
	if err != nil {
		return err
	}

	c, err := w.GetCallable(fnName)
	if err != nil {
		return err
	}

	var results []any
	if callKwargs != "" {
		results, err = c.InvokeKwargs(kwargs)
	} else {
		results, err = c.Invoke(positional)
	}
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		var payload any
		switch len(results) {
		case 0:
			payload = nil
		case 1:
			payload = results[0]
		default:
			payload = results
		}
		output, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	for _, r := range results {
		fmt.Println(formatResult(r))
	}
	return nil
}

// formatResult prints strings bare, so a function returning "ran whoami"
// prints exactly that. Composite values render as JSON, scalars via %v.
func formatResult(r any) string {
	switch v := r.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	}
	switch reflect.ValueOf(r).Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct, reflect.Pointer:
		if b, err := json.Marshal(r); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", r)
}
