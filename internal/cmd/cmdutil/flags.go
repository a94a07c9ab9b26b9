// Package cmdutil provides shared flags and configuration utilities for mapreview commands.
package cmdutil

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/internal/cmd/hints"
	"github.com/agentstation/mapreview/internal/cmd/output"
	"github.com/agentstation/mapreview/internal/config"
)

// AddDataDirFlag adds --data-dir to a command that reads or writes data files.
func AddDataDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "", "directory holding the data files (overrides data_dir)")
}

// Resolve returns a copy of cfg with the command's --data-dir applied.
func Resolve(cmd *cobra.Command, cfg *config.Config) *config.Config {
	resolved := *cfg
	if f := cmd.Flags().Lookup("data-dir"); f != nil && f.Value.String() != "" {
		resolved.DataDir = f.Value.String()
	}
	return &resolved
}

// Format returns the output format for a command, detecting one from the
// terminal when --format was not given.
func Format(explicit string) output.Format {
	return output.DetectFormat(explicit)
}

// IsTable reports whether format is meant for a human at a terminal.
func IsTable(format output.Format) bool {
	return format == output.FormatTable || format == output.FormatWide
}

// PrintHints writes next-step hints to stderr when format is a table format.
func PrintHints(cmd *cobra.Command, format output.Format, ctx hints.Context) {
	if !IsTable(format) {
		return
	}
	ctx.Succeeded = true
	hints.Default().Print(cmd.ErrOrStderr(), ctx)
}

// MustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined by the calling command.
func MustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// MustGetString retrieves a string flag value or panics if the flag doesn't exist.
func MustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// MustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func MustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// MustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
func MustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// MustGetDuration retrieves a duration flag value or panics if the flag doesn't exist.
func MustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
