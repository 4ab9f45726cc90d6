package packager

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DependencyInstaller installs the packages listed in a manifest into a
// target directory.
type DependencyInstaller interface {
	Install(ctx context.Context, manifestPath, targetDir string) error
}

// PipInstaller runs "pip install -r <manifest> -t <target>".
type PipInstaller struct {
	command string
	output  io.Writer
	logger  *zap.Logger
}

// NewPipInstaller returns an installer using the given pip executable.
// Command output is streamed to output when non-nil.
func NewPipInstaller(command string, output io.Writer, logger *zap.Logger) *PipInstaller {
	if command == "" {
		command = "pip"
	}
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipInstaller{command: command, output: output, logger: logger}
}

// Install implements DependencyInstaller.
func (p *PipInstaller) Install(ctx context.Context, manifestPath, targetDir string) error {
	bin, err := exec.LookPath(p.command)
	if err != nil {
		return fmt.Errorf("%s not found: %w", p.command, err)
	}

	args := []string{"install", "-r", manifestPath, "-t", targetDir, "--upgrade"}
	p.logger.Info("installing dependencies", zap.String("pip", bin), zap.Strings("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = p.output
	cmd.Stderr = io.MultiWriter(p.output, &stderr)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s install -r %s: %w: %s", p.command, manifestPath, err, lastLine(msg))
		}
		return fmt.Errorf("%s install -r %s: %w", p.command, manifestPath, err)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
