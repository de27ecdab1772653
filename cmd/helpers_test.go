package cmd

import (
	"bytes"
	"testing"
)

// ResetFlagState restores the persistent flags to their defaults.
func ResetFlagState() {
	flagEnvironment = ""
	flagHost = ""
	flagPort = 0
}

func executeCommand(t testing.TB, args ...string) (string, error) {
	t.Helper()
	ResetFlagState()
	t.Cleanup(ResetFlagState)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
