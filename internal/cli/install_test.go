package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePackageManager puts npm and npx scripts on PATH that append their
// argv to a log file, and returns the log path.
func fakePackageManager(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for npm")
	}
	bin := t.TempDir()
	log := filepath.Join(bin, "calls.log")
	for _, name := range []string{"npm", "npx"} {
		script := "#!/bin/sh\necho \"" + name + " $*\" >> \"" + log + "\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(script), 0755))
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return log
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func installCalls(t *testing.T, log string) (regular, dev []string) {
	t.Helper()
	data, err := os.ReadFile(log)
	if os.IsNotExist(err) {
		return nil, nil
	}
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if !strings.HasPrefix(line, "npm install") {
			continue
		}
		if strings.Contains(line, " -D ") {
			dev = append(dev, line)
		} else {
			regular = append(regular, line)
		}
	}
	return regular, dev
}

func TestAdd_InstallsOncePerCommand(t *testing.T) {
	log := fakePackageManager(t)
	testChdir(t, t.TempDir())

	execute(t, InitCmd(), "--framework", "next", "--package-manager", "npm", "--src", "false", "--yes")
	require.NoError(t, os.RemoveAll(log))

	out := execute(t, AddCmd(),
		"--orm", "drizzle", "--db", "pg", "--provider", "postgresjs",
		"--trpc", "--auth", "clerk", "--yes")

	regular, dev := installCalls(t, log)
	require.Len(t, regular, 1, "one regular install per command")
	assert.LessOrEqual(t, len(dev), 1)

	install := " " + regular[0] + " "
	assert.Equal(t, 1, strings.Count(install, " zod "), "zod is requested by several steps")
	for _, pkg := range []string{"drizzle-orm", "@trpc/server", "@clerk/nextjs"} {
		assert.Contains(t, install, " "+pkg+" ")
	}
	assert.Contains(t, out, "Next steps:")
}

func TestAdd_SkipInstallRunsNothing(t *testing.T) {
	log := fakePackageManager(t)
	testChdir(t, t.TempDir())

	execute(t, InitCmd(), "--framework", "next", "--package-manager", "npm", "--src", "false", "--yes", "--skip-install")
	out := execute(t, AddCmd(), "--trpc", "--yes", "--skip-install")

	regular, dev := installCalls(t, log)
	assert.Empty(t, regular)
	assert.Empty(t, dev)
	assert.Contains(t, out, "Not installed:")
}

// testChdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
