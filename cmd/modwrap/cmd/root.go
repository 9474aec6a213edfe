package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modwrap/modwrap/pkg/modwrap"
)

var (
	cfgFile      string
	outputFormat string
	allowLarge   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modwrap",
	Short: "Load Go source files as modules and call their functions",
	Long: `modwrap loads a Go source file at runtime as an isolated module, lists
its top-level functions and their parameter signatures, validates asserted
parameter types, and invokes a function with positional or JSON keyword
arguments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.modwrap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&allowLarge, "allow-large", false, "disable the module file size guard")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".modwrap"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MODWRAP")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if outputFormat == "" && viper.GetString("output") != "" {
			outputFormat = viper.GetString("output")
		}
		if !allowLarge && viper.GetBool("allow_large") {
			allowLarge = true
		}
	}

	// Environment can still supply values when flags and config did not
	if outputFormat == "" && viper.GetString("output") != "" {
		outputFormat = viper.GetString("output")
	}
	if outputFormat == "" {
		outputFormat = "table"
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}

// IsYAMLOutput returns true if YAML output is requested
func IsYAMLOutput() bool {
	return outputFormat == "yaml"
}

// LoadOptions returns the module load options derived from global flags
func LoadOptions() modwrap.Options {
	return modwrap.Options{AllowLarge: allowLarge}
}
