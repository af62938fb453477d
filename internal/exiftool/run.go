package exiftool

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// DefaultBinary is the exiftool executable resolved via PATH.
const DefaultBinary = "exiftool"

// Runner invokes the external metadata tool. Abstracted so the pipeline can
// be exercised without exiftool installed.
type Runner interface {
	Run(ctx context.Context, args []string) (stdout, stderr string, err error)
}

// ExecRunner runs the real binary, capturing both output streams. Invocation
// is synchronous; a local bounded-size image operation needs no timeout.
type ExecRunner struct {
	Binary string
}

func NewRunner() *ExecRunner {
	return &ExecRunner{Binary: DefaultBinary}
}

func (r *ExecRunner) Run(ctx context.Context, args []string) (string, string, error) {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// FirstStderrLine extracts the leading stderr line for error reporting, or a
// generic message when the tool said nothing.
func FirstStderrLine(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return "Unknown error"
}
