package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"combinepy/pkg/aggregate"
	"combinepy/pkg/filelock"
	"combinepy/pkg/logging"
	"combinepy/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRootCommandCombinesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.py"), "x=1")
	writeFile(t, filepath.Join(dir, "sub", "b.py"), "x=2")
	writeFile(t, filepath.Join(dir, "venv", "lib.py"), "skip")
	writeFile(t, filepath.Join(dir, "README.md"), "skip")
	t.Chdir(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	output := filepath.Join(wd, aggregate.DefaultOutputName)

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{})
	require.NoError(t, root.Execute())

	assert.Equal(t, "All files have been concatenated into "+output+"\n", out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t,
		"\n# ===== Start of a.py =====\n\nx=1\n# ===== End of a.py =====\n"+
			"\n# ===== Start of "+filepath.Join("sub", "b.py")+" =====\n\nx=2\n# ===== End of "+filepath.Join("sub", "b.py")+" =====\n",
		string(data))

	_, err = os.Stat(output + ".lock")
	assert.True(t, os.IsNotExist(err), "lock file must be removed after the run")
}

func TestRootCommandFailsWhileOutputIsLocked(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.py"), "x=1")
	t.Chdir(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	lock := filelock.ForOutput(filepath.Join(wd, aggregate.DefaultOutputName))
	require.NoError(t, lock.TryLock())
	defer lock.Unlock()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{})
	err = root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, filelock.ErrLocked)

	_, err = os.Stat(filepath.Join(wd, aggregate.DefaultOutputName))
	assert.True(t, os.IsNotExist(err))
}

func TestRootCommandSurfacesAggregationErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.py"), string([]byte{0xff}))
	t.Chdir(dir)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{})
	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregate.ErrInvalidEncoding)
	assert.Empty(t, out.String())
}

func TestRootCommandFollowsSymlinkedWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project")
	writeFile(t, filepath.Join(target, "a.py"), "x=1")
	writeFile(t, filepath.Join(target, "pkg", "b.py"), "x=2")
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	t.Chdir(link)
	t.Setenv("PWD", link)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(target, aggregate.DefaultOutputName))
	require.NoError(t, err)
	rel := filepath.Join("pkg", "b.py")
	assert.Equal(t,
		"\n# ===== Start of a.py =====\n\nx=1\n# ===== End of a.py =====\n"+
			"\n# ===== Start of "+rel+" =====\n\nx=2\n# ===== End of "+rel+" =====\n",
		string(data))
}

func TestRootCommandRejectsArguments(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"somewhere"})
	assert.Error(t, root.Execute())
}

func TestRootCommandFlags(t *testing.T) {
	root := NewRootCmd()

	debug := root.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)
	assert.True(t, root.SilenceUsage)
}

func TestDebugFlagEnablesDebugLogging(t *testing.T) {
	original := logging.Logger
	t.Cleanup(func() {
		logging.Logger = original
		zap.ReplaceGlobals(zap.NewNop())
	})

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"version", "--debug", "--short"})
	require.NoError(t, root.Execute())

	assert.True(t, logging.Logger.Core().Enabled(zap.DebugLevel))
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "full", args: []string{"version"}, want: version.Get().String() + "\n"},
		{name: "short", args: []string{"version", "--short"}, want: version.Get().Short() + "\n"},
		{name: "short alias", args: []string{"version", "-s"}, want: version.Get().Short() + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := NewRootCmd()
			root.SetOut(&out)
			root.SetArgs(tt.args)
			require.NoError(t, root.Execute())
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
