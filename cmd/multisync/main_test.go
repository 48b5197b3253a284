// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/multisync/cmd/multisync/jobflags"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"github.com/matt-FFFFFF/multisync/internal/transfer"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const notExited = -1

type invocation struct {
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	exitCode int
	err      error
}

// runCLI runs the root command with args, recording the exit code instead of exiting.
func runCLI(t *testing.T, args ...string) *invocation {
	t.Helper()

	inv := &invocation{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		exitCode: notExited,
	}

	stubs := gostub.Stub(&cli.OsExiter, func(code int) {
		inv.exitCode = code
	})
	defer stubs.Reset()

	inv.err = newRootCmd(inv.stdout, inv.stderr).Run(context.Background(), append([]string{"multisync"}, args...))

	return inv
}

// writeTool writes a stand in for rsync that records that it ran next to itself.
func writeTool(t *testing.T, body string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	tool := filepath.Join(dir, "fakersync")
	script := "#!/bin/sh\ntouch '" + marker + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755)) //nolint:gosec

	return tool, marker
}

func TestRun_Success(t *testing.T) {
	tool, _ := writeTool(t, `printf '10%%\r55%%\r100%%\r'`)
	root := t.TempDir()

	inv := runCLI(t, "run",
		"--tool", tool,
		"--interval", "10ms",
		"--source", "/tmp/a", "--destination", filepath.Join(root, "x"),
		"--source", "/tmp/b", "--destination", filepath.Join(root, "y"),
	)
	require.NoError(t, inv.err)
	assert.Equal(t, notExited, inv.exitCode)

	out := inv.stdout.String()
	assert.Contains(t, out, "/tmp/a\n"+transfer.SuccessMessage+"\n/tmp/b\n"+transfer.SuccessMessage+"\n")
	assert.Contains(t, out, "✓")
	assert.DirExists(t, filepath.Join(root, "x"))
	assert.DirExists(t, filepath.Join(root, "y"))
}

func TestRun_SizeMismatch(t *testing.T) {
	tool, marker := writeTool(t, `exit 0`)

	inv := runCLI(t, "run",
		"--tool", tool,
		"--source", "/tmp/a", "--source", "/tmp/b",
		"--destination", t.TempDir(),
	)
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Empty(t, inv.stdout.String(), "nothing is displayed for a configuration error")
	assert.NoFileExists(t, marker, "no transfer is started")
}

func TestRun_NoJobs(t *testing.T) {
	inv := runCLI(t, "--log-format", "json", "run")
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Contains(t, inv.stderr.String(), `"msg":"invalid configuration"`)
	assert.Contains(t, inv.stderr.String(), jobflags.ErrNoJobs.Error())
	assert.Empty(t, inv.stdout.String())
}

func TestRun_InvalidLogFormat(t *testing.T) {
	tool, marker := writeTool(t, `exit 0`)

	inv := runCLI(t, "--log-format", "xml", "run", "--tool", tool, "--source", "/tmp/a", "--destination", t.TempDir())
	require.ErrorContains(t, inv.err, ErrInvalidLogFormat.Error())
	assert.NoFileExists(t, marker)
}

func TestRun_JSONLogsAfterDisplay(t *testing.T) {
	inv := runCLI(t, "--log-format", "json", "run",
		"--tool", "/not/a/real/rsync", "--interval", "10ms",
		"--source", "/tmp/a", "--destination", t.TempDir(),
	)
	require.Error(t, inv.err)

	lines := strings.Split(strings.TrimSpace(inv.stderr.String()), "\n")
	require.NotEmpty(t, lines)

	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}"), "not a JSON record: %s", line)
	}

	assert.Contains(t, inv.stderr.String(), `"msg":"transfer failed"`)
}

func TestRun_Plain(t *testing.T) {
	tool, _ := writeTool(t, `printf '10%%\r'; sleep 0.1; printf '100%%\r'`)

	inv := runCLI(t, "run", "--plain", "--tool", tool, "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.NoError(t, inv.err)

	out := inv.stdout.String()
	assert.NotContains(t, out, "\033[")
	assert.Greater(t, strings.Count(out, "/tmp/a\n"), 2, "every refresh is appended")
	assert.Contains(t, out, "/tmp/a\n"+transfer.SuccessMessage+"\n")
}

func TestRun_Redraw(t *testing.T) {
	tool, _ := writeTool(t, `sleep 0.1`)

	inv := runCLI(t, "run", "--redraw", "--tool", tool, "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.NoError(t, inv.err)
	assert.Contains(t, inv.stdout.String(), "\033[2A\033[J")

	inv = runCLI(t, "run", "--tool", tool, "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.NoError(t, inv.err)
	assert.NotContains(t, inv.stdout.String(), "\033[", "no cursor movement when stdout is not a terminal")
}

func TestRun_FailureSetsExitCode(t *testing.T) {
	tool, _ := writeTool(t, `echo 'rsync error: some files/attrs were not transferred (code 23)' >&2; exit 23`)

	inv := runCLI(t, "run", "--tool", tool, "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Contains(t, inv.stdout.String(), "(exit code: 23)")
	assert.NotContains(t, inv.stdout.String(), transfer.SuccessMessage)
}

func TestRun_NoFail(t *testing.T) {
	tool, _ := writeTool(t, `exit 23`)

	inv := runCLI(t, "run", "--no-fail", "--tool", tool, "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.NoError(t, inv.err)
	assert.Equal(t, notExited, inv.exitCode)
}

func TestRun_ToolNotFound(t *testing.T) {
	inv := runCLI(t, "run", "--tool", "/not/a/real/rsync", "--interval", "10ms", "--source", "/tmp/a", "--destination", t.TempDir())
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Contains(t, inv.stdout.String(), "mirror tool not found")
}

func TestRun_ManyStartFailuresLogged(t *testing.T) {
	const jobs = 8

	args := []string{"run", "--tool", "/not/a/real/rsync", "--interval", "10ms"}
	for i := range jobs {
		args = append(args, "--source", fmt.Sprintf("/tmp/src%d", i), "--destination", t.TempDir())
	}

	inv := runCLI(t, args...)
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Equal(t, jobs, strings.Count(inv.stderr.String(), "transfer failed"),
		"every worker logs its own failure once the display is done")
	assert.Equal(t, jobs, strings.Count(inv.stdout.String(), "✗"))
}

func TestRun_InvalidBandwidthLimit(t *testing.T) {
	tool, marker := writeTool(t, `exit 0`)

	inv := runCLI(t, "run", "--tool", tool, "--bwlimit", "0", "--source", "/tmp/a", "--destination", t.TempDir())
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.NoFileExists(t, marker)
}

func TestRun_OutAndReport(t *testing.T) {
	tool, _ := writeTool(t, `printf '100%%\r'`)
	outFile := filepath.Join(t.TempDir(), "results.json")

	inv := runCLI(t, "run", "--tool", tool, "--interval", "10ms", "--out", outFile, "--source", "/tmp/a", "--destination", t.TempDir())
	require.NoError(t, inv.err)

	f, err := os.Open(outFile)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	results, err := supervisor.ReadJSON(f)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, transfer.SuccessMessage, results[0].LastLine)

	inv = runCLI(t, "report", outFile)
	require.NoError(t, inv.err)
	assert.Contains(t, inv.stdout.String(), "/tmp/a")
	assert.Contains(t, inv.stdout.String(), transfer.SuccessMessage)
}

func TestReport_MissingFile(t *testing.T) {
	inv := runCLI(t, "report", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, inv.err)
}

func TestRun_JobFile(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("FAKE_ARGS_FILE", argsFile)

	tool, _ := writeTool(t, `printf '%s\n' "$@" > "$FAKE_ARGS_FILE"`)
	dest := t.TempDir()
	jobFile := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte(
		"bandwidth_limit: 900\ntool: "+tool+"\njobs:\n  - source: /tmp/a\n    destination: "+dest+"\n",
	), 0o600))

	inv := runCLI(t, "run", "--file", jobFile, "--interval", "10ms")
	require.NoError(t, inv.err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "--bwlimit=900")
}

func TestRun_FlagsOverrideJobFile(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("FAKE_ARGS_FILE", argsFile)

	tool, _ := writeTool(t, `printf '%s\n' "$@" > "$FAKE_ARGS_FILE"`)
	jobFile := filepath.Join(t.TempDir(), "jobs.hcl")
	require.NoError(t, os.WriteFile(jobFile, []byte(
		"bandwidth_limit = 900\njob {\n  source = \"/tmp/a\"\n  destination = \""+t.TempDir()+"\"\n}\n",
	), 0o600))

	inv := runCLI(t, "run", "--file", jobFile, "--tool", tool, "--bwlimit", "42", "--interval", "10ms")
	require.NoError(t, inv.err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "--bwlimit=42")
}

func TestShow(t *testing.T) {
	tool, marker := writeTool(t, `exit 0`)

	inv := runCLI(t, "show", "--tool", tool, "--bwlimit", "250",
		"--source", "/tmp/a", "--destination", "/tmp/x",
		"--source", "/tmp/my files", "--destination", "/tmp/y",
	)
	require.NoError(t, inv.err)

	out := inv.stdout.String()
	assert.Contains(t, out, tool+" -ah --info=progress2 --bwlimit=250 /tmp/a/ /tmp/x\n")
	assert.Contains(t, out, `"/tmp/my files/"`)
	assert.NoFileExists(t, marker, "show never runs the tool")
}

func TestShow_SizeMismatch(t *testing.T) {
	inv := runCLI(t, "show", "--source", "/tmp/a")
	require.Error(t, inv.err)
	assert.Equal(t, 1, inv.exitCode)
	assert.Empty(t, inv.stdout.String())
}
