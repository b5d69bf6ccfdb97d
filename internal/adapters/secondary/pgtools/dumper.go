package pgtools

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	output "inventory-service/internal/core/ports/output"
)

var ErrContainerNotFound = errors.New("no running container matches filter")

// Command describes one external program invocation.
type Command struct {
	Program string
	Args    []string
	Env     map[string]string // appended to the current environment
	Stdin   io.Reader
	Stdout  io.Writer
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec. Stderr is captured and included
// in the returned error.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", c.Program, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ConnInfo holds the libpq connection parameters passed to the tools.
type ConnInfo struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Dumper runs pg_dump and pg_restore, either locally or inside a Docker
// container selected by name filter.
type Dumper struct {
	runner    Runner
	conn      ConnInfo
	container string
}

// NewDumper creates a new DatabaseDumper. An empty container runs the
// tools on the host.
func NewDumper(runner Runner, conn ConnInfo, container string) output.DatabaseDumper {
	return &Dumper{runner: runner, conn: conn, container: container}
}

func (d *Dumper) Dump(ctx context.Context, w io.Writer) error {
	args := append([]string{"-Fc"}, d.connArgs()...)
	cmd, err := d.command(ctx, "pg_dump", args)
	if err != nil {
		return err
	}
	cmd.Stdout = w

	if err := d.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("dump database: %w", err)
	}
	return nil
}

func (d *Dumper) Restore(ctx context.Context, r io.Reader, opts output.RestoreOptions) error {
	args := []string{"--no-owner"}
	if opts.Clean {
		args = append(args, "--clean", "--if-exists")
	}
	args = append(args, d.connArgs()...)

	cmd, err := d.command(ctx, "pg_restore", args)
	if err != nil {
		return err
	}
	cmd.Stdin = r
	cmd.Stdout = io.Discard

	if err := d.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}
	return nil
}

func (d *Dumper) connArgs() []string {
	return []string{
		"-h", d.conn.Host,
		"-p", strconv.Itoa(d.conn.Port),
		"-U", d.conn.User,
		"-d", d.conn.Database,
	}
}

// command builds the invocation of tool. Inside a container the password
// travels as an inherited environment variable, never on the command line.
func (d *Dumper) command(ctx context.Context, tool string, args []string) (Command, error) {
	env := map[string]string{"PGPASSWORD": d.conn.Password}
	if d.container == "" {
		return Command{Program: tool, Args: args, Env: env}, nil
	}

	id, err := d.resolveContainer(ctx)
	if err != nil {
		return Command{}, err
	}
	log.WithFields(log.Fields{"container": id, "tool": tool}).Debug("running inside container")

	dockerArgs := append([]string{"exec", "-i", "-e", "PGPASSWORD", id, tool}, args...)
	return Command{Program: "docker", Args: dockerArgs, Env: env}, nil
}

// resolveContainer returns the id of the first running container whose
// name matches the configured filter.
func (d *Dumper) resolveContainer(ctx context.Context) (string, error) {
	var out bytes.Buffer
	err := d.runner.Run(ctx, Command{
		Program: "docker",
		Args:    []string{"ps", "-q", "--filter", "name=" + d.container},
		Stdout:  &out,
	})
	if err != nil {
		return "", fmt.Errorf("find container: %w", err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrContainerNotFound, d.container)
}
