package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/solution"
)

// copySample copies the shared sample solution into a temporary directory.
func copySample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "solution", "testdata", "sample.sln"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Sample.sln")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type result struct {
	stdout string
	stderr string
}

// execute runs cmd with args against a console that writes plain text into
// buffers.
func execute(t *testing.T, newCmd func(*output.Console) *cobra.Command, verbosity output.Verbosity, args ...string) (result, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	console := output.NewConsole(&out, &errOut, verbosity)
	console.SetColors(false)

	cmd := newCmd(console)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String()}, err
}

// reload parses path again, as a later invocation would.
func reload(t *testing.T, path string) *solution.Document {
	t.Helper()
	doc, err := solution.ParseFile(context.Background(), path)
	require.NoError(t, err)
	return doc
}
