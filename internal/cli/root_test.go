package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/registrar/internal/app"
	"github.com/trebuchet-org/registrar/internal/config"
	"github.com/trebuchet-org/registrar/internal/domain/bindings"
	domainconfig "github.com/trebuchet-org/registrar/internal/domain/config"
)

// runCommand executes the root command in dir and returns its stdout
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return runCommandContext(t, context.Background(), dir, args...)
}

func runCommandContext(t *testing.T, ctx context.Context, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// writeArtifact stores a Registration build artifact with an empty networks table
func writeArtifact(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "build", "contracts", "Registration.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	data, err := json.Marshal(map[string]any{
		"contractName": "Registration",
		"abi":          json.RawMessage(bindings.RegistrationMetaData.ABI),
		"bytecode":     "0x00",
		"networks":     map[string]any{},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func artifactNetworks(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var artifact struct {
		Networks map[string]any `json:"networks"`
	}
	require.NoError(t, json.Unmarshal(data, &artifact))
	return artifact.Networks
}

func TestVersionCmd(t *testing.T) {
	config.SetBuildFlags("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	out, err := runCommand(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "registrar version v1.2.3 (commit abc123, built 2026-01-01)\n", out)
}

func TestDemoCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "demo", "-n", "memory", "--non-interactive",
		"--count", "2", "--interval", "10ms", "--overlap", "queue", "--name", "Jane Roe")
	require.NoError(t, err)

	assert.Contains(t, out, "Deployed Registration")
	assert.Contains(t, out, "Jane Roe")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "#2")

	data, err := os.ReadFile(filepath.Join(dir, ".registrar", "metadata.json"))
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Contains(t, record, "address")
	assert.Contains(t, record, "abi")
	assert.EqualValues(t, 5777, record["networkId"])
}

func TestSendCmd_NoDeployment(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "send", "-n", "memory", "--non-interactive")
	require.Error(t, err)
}

func TestNetworksUseCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "networks", "use", "memory", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "memory")

	data, err := os.ReadFile(filepath.Join(dir, ".registrar", "config.local.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"memory"`)

	// the saved network is picked up without --network
	out, err = runCommand(t, dir, "demo", "--non-interactive", "--count", "1", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Deployed Registration")

	_, err = runCommand(t, dir, "networks", "use", "--clear", "--json")
	require.NoError(t, err)
}

func TestUnknownNetwork(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "show", "-n", "nowhere", "--non-interactive")
	require.Error(t, err)
}

func TestDeployCmd_MemoryNetwork(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, dir)

	_, err := runCommand(t, dir, "deploy", "-n", "memory", "--non-interactive")
	require.ErrorIs(t, err, errMemoryNetwork)
	assert.Empty(t, artifactNetworks(t, artifact))
	assert.NoFileExists(t, filepath.Join(dir, ".registrar", "metadata.json"))

	// demo deploys from the artifact but leaves its networks table alone
	out, err := runCommand(t, dir, "demo", "-n", "memory", "--non-interactive", "--count", "1", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Deployed Registration")
	assert.Empty(t, artifactNetworks(t, artifact))
}

func TestDemoCmd_RunsUntilCancelled(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(400*time.Millisecond, cancel)

	start := time.Now()
	out, err := runCommandContext(t, ctx, dir, "demo", "-n", "memory", "--non-interactive",
		"--count", "0", "--interval", "20ms")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
	assert.GreaterOrEqual(t, strings.Count(out, "value=100"), 3)
}

func TestDemoCmd_ExplicitTimeout(t *testing.T) {
	start := time.Now()
	out, err := runCommand(t, t.TempDir(), "demo", "-n", "memory", "--non-interactive",
		"--count", "0", "--interval", "20ms", "--timeout", "300ms")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, out, "value=100")
}

func TestLoopContext(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	bounded, cancelBounded := context.WithTimeout(context.WithValue(base, loopKey, base), time.Minute)
	defer cancelBounded()

	cmd := &cobra.Command{}
	cmd.SetContext(bounded)

	t.Run("default timeout does not bound loops", func(t *testing.T) {
		a := &app.App{Config: &domainconfig.RuntimeConfig{Timeout: time.Minute}}
		ctx, cancel := loopContext(cmd, a)
		defer cancel()

		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
	})

	t.Run("explicit timeout bounds loops", func(t *testing.T) {
		a := &app.App{Config: &domainconfig.RuntimeConfig{Timeout: time.Second, LoopTimeout: time.Second}}
		ctx, cancel := loopContext(cmd, a)
		defer cancel()

		deadline, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
	})

	t.Run("interrupt still stops loops", func(t *testing.T) {
		a := &app.App{Config: &domainconfig.RuntimeConfig{}}
		ctx, cancel := loopContext(cmd, a)
		defer cancel()

		cancelBase()
		<-ctx.Done()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}

func TestWithCleanup(t *testing.T) {
	failure := errors.New("boom")
	calls := 0

	root := &cobra.Command{Use: "root"}
	parent := &cobra.Command{Use: "parent", RunE: func(*cobra.Command, []string) error { return nil }}
	child := &cobra.Command{Use: "child", RunE: func(*cobra.Command, []string) error { return failure }}
	parent.AddCommand(child)
	root.AddCommand(parent)
	root.SilenceErrors = true
	root.SilenceUsage = true

	withCleanup(root, func() { calls++ })

	root.SetArgs([]string{"parent", "child"})
	err := root.Execute()
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, calls, "cleanup runs when the command fails")

	root.SetArgs([]string{"parent"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 2, calls)
}
