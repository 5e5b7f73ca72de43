package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
)

// Runner abstracts the external process spawn so tests can substitute
// canned stdout/stderr/exit triples without a real binary. Run blocks
// until the process exits; RunStream additionally delivers stdout line
// by line while the process runs, which the converter uses for ffmpeg
// -progress reporting.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
	RunStream(ctx context.Context, name string, args []string, onLine func(string)) (stderr []byte, err error)
}

// ExecRunner spawns real processes via os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (r *ExecRunner) RunStream(ctx context.Context, name string, args []string, onLine func(string)) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		onLine(scanner.Text())
	}

	err = cmd.Wait()
	return stderr.Bytes(), err
}

var _ Runner = (*ExecRunner)(nil)
