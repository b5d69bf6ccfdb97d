package pgtools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	output "inventory-service/internal/core/ports/output"
)

// fakeRunner records commands and plays scripted stdout per program.
type fakeRunner struct {
	calls  []Command
	stdin  [][]byte
	stdout map[string]string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) error {
	f.calls = append(f.calls, cmd)
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		f.stdin = append(f.stdin, data)
	}
	if f.err != nil {
		return f.err
	}
	key := cmd.Program
	if len(cmd.Args) > 0 {
		key += " " + cmd.Args[0]
	}
	if out, ok := f.stdout[key]; ok && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, out)
	}
	return nil
}

var testConn = ConnInfo{Host: "127.0.0.1", Port: 5432, User: "inventory", Password: "pw", Database: "inventory"}

func TestDumper_DumpLocal(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"pg_dump -Fc": "PGDMP"}}
	dumper := NewDumper(runner, testConn, "")

	var buf bytes.Buffer
	require.NoError(t, dumper.Dump(context.Background(), &buf))

	require.Len(t, runner.calls, 1)
	cmd := runner.calls[0]
	assert.Equal(t, "pg_dump", cmd.Program)
	assert.Equal(t, []string{"-Fc", "-h", "127.0.0.1", "-p", "5432", "-U", "inventory", "-d", "inventory"}, cmd.Args)
	assert.Equal(t, "pw", cmd.Env["PGPASSWORD"])
	assert.Equal(t, "PGDMP", buf.String())
}

func TestDumper_RestoreInContainer(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"docker ps": "abc123\ndef456\n"}}
	dumper := NewDumper(runner, testConn, "msinventory")

	err := dumper.Restore(context.Background(), strings.NewReader("PGDMP"), output.RestoreOptions{Clean: true})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"ps", "-q", "--filter", "name=msinventory"}, runner.calls[0].Args)

	exec := runner.calls[1]
	assert.Equal(t, "docker", exec.Program)
	assert.Equal(t, []string{"exec", "-i", "-e", "PGPASSWORD", "abc123", "pg_restore", "--no-owner", "--clean", "--if-exists"}, exec.Args[:9])
	assert.NotContains(t, strings.Join(exec.Args, " "), "pw")
	assert.Equal(t, "pw", exec.Env["PGPASSWORD"])
	require.Len(t, runner.stdin, 1)
	assert.Equal(t, "PGDMP", string(runner.stdin[0]))
}

func TestDumper_ContainerNotFound(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"docker ps": "\n"}}
	dumper := NewDumper(runner, testConn, "missing")

	err := dumper.Dump(context.Background(), io.Discard)
	assert.ErrorIs(t, err, ErrContainerNotFound)
	assert.Len(t, runner.calls, 1)
}

func TestDumper_ToolFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	dumper := NewDumper(runner, testConn, "")

	err := dumper.Restore(context.Background(), strings.NewReader(""), output.RestoreOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore database")
}
