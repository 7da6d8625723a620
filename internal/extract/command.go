package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"time"
)

// FilePlaceholder is replaced by the document path in command arguments.
const FilePlaceholder = "{file}"

// DefaultTimeout bounds a single extraction command.
const DefaultTimeout = 2 * time.Minute

// PopplerUnreadable is the poppler exit code for a document that could not
// be opened. Other poppler failures, such as permission restrictions, leave
// the document renderable.
const PopplerUnreadable = 1

// Command runs an external tool and returns its standard output.
// UnreadableCodes lists the exit codes that mean the tool rejected the
// document; any other non-zero exit is treated as a tool failure.
type Command struct {
	Path            string
	Args            []string
	UnreadableCodes []int
	Timeout         time.Duration
}

// PDFText returns a command that reads embedded PDF text with pdftotext.
func PDFText() *Command {
	return &Command{
		Path:            "pdftotext",
		Args:            []string{"-layout", FilePlaceholder, "-"},
		UnreadableCodes: []int{PopplerUnreadable},
		Timeout:         DefaultTimeout,
	}
}

// PDFPages returns a command that renders PDF pages to 300 dpi PNG images
// with pdftoppm.
func PDFPages() *Command {
	return &Command{
		Path:            "pdftoppm",
		Args:            []string{"-r", "300", "-png", FilePlaceholder, OutputPlaceholder},
		UnreadableCodes: []int{PopplerUnreadable},
		Timeout:         DefaultTimeout,
	}
}

// OCR returns a command that recognizes text with tesseract.
func OCR() *Command {
	return &Command{Path: "tesseract", Args: []string{FilePlaceholder, "stdout"}, Timeout: DefaultTimeout}
}

// ParseCommand splits a command line such as "pdftotext -layout {file} -".
// Arguments are separated by whitespace; quoting is not supported.
func ParseCommand(line string, timeout time.Duration) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty extraction command")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Command{Path: fields[0], Args: fields[1:], Timeout: timeout}, nil
}

// String returns the command line with the placeholder left in place.
func (c *Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Extract implements Extractor. An exit code listed in UnreadableCodes
// yields ErrUnreadable; a missing tool, a timeout or any other failure
// yields ErrUnavailable.
func (c *Command) Extract(ctx context.Context, path string) (string, error) {
	bin, err := exec.LookPath(c.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found: %w", ErrUnavailable, c.Path, err)
	}

	args := c.expand(FilePlaceholder, path)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, bin, args...) // #nosec G204 -- configured tool
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, c.Path, cmdCtx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			kind := ErrUnavailable
			if slices.Contains(c.UnreadableCodes, exitErr.ExitCode()) {
				kind = ErrUnreadable
			}
			return "", fmt.Errorf("%w: %s exited %d: %s", kind, c.Path, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, c.Path, err)
	}

	return stdout.String(), nil
}

func (c *Command) expand(placeholder, value string) []string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strings.ReplaceAll(a, placeholder, value)
	}
	return args
}
