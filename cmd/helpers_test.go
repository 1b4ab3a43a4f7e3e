package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	domainmocks "constscan.dev/pkg/constscan/internal/domain/mocks"
)

// resetConfig restores the global viper state once the test ends, dropping
// any flag bindings and overrides the test left behind.
func resetConfig(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		viper.Reset()
		initConfig()
	})
}

// newTestRoot builds a root command with sub and a mocked workflow. Logs go
// to a temporary file.
func newTestRoot(t *testing.T, sub *cobra.Command) (*cobra.Command, *domainmocks.MockWorkflow, *bytes.Buffer) {
	t.Helper()

	resetConfig(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	out := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.AddCommand(sub)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, mockWorkflow, out
}

func withLogFile(t *testing.T, args ...string) []string {
	t.Helper()

	return append(args, "--"+logFileFlagName, filepath.Join(t.TempDir(), "test.log"))
}
