// Package xdo wraps the xdotool utility, the window-control boundary wtm
// uses to list, focus, show, hide, and close X11 windows. It holds no state;
// every call shells out to xdotool.
package xdo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every xdotool call. A stalled X connection must not
// hang the user's key press.
const DefaultTimeout = 3 * time.Second

// Client executes xdotool commands for windows of a given WM class.
type Client struct {
	// Class is the WM_CLASS that marks windows as belonging to wtm.
	Class string

	// Timeout applies per call when the caller's context has no deadline.
	Timeout time.Duration
}

// NewClient creates a client scoped to the given WM class.
func NewClient(class string) *Client {
	return &Client{Class: class, Timeout: DefaultTimeout}
}

// Run executes an xdotool command and returns its trimmed stdout.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "xdotool", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("xdotool %s: %w", strings.Join(args, " "), ctxErr)
		}
		return "", &ExitError{Args: args, Err: err, Stderr: stderr.String(), Stdout: strings.TrimSpace(stdout.String())}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunSilent executes an xdotool command ignoring stdout.
func (c *Client) RunSilent(ctx context.Context, args ...string) error {
	_, err := c.Run(ctx, args...)
	return err
}

// ExitError reports a failed xdotool invocation with its stderr attached.
type ExitError struct {
	Args   []string
	Err    error
	Stderr string
	Stdout string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("xdotool %s: %v: %s", strings.Join(e.Args, " "), e.Err, strings.TrimSpace(e.Stderr))
}

func (e *ExitError) Unwrap() error { return e.Err }

// ListWindows returns the ids of all live windows carrying the client's WM
// class, in xdotool's stacking order. No matches is not an error.
func (c *Client) ListWindows(ctx context.Context) ([]int64, error) {
	out, err := c.Run(ctx, "search", "--class", c.Class)
	if err != nil {
		// xdotool search exits non-zero when nothing matches.
		var xerr *ExitError
		if errors.As(err, &xerr) && xerr.Stdout == "" {
			return nil, nil
		}
		return nil, err
	}
	return ParseWindowIDs(out)
}

// ActiveWindow returns the id of the currently focused window.
func (c *Client) ActiveWindow(ctx context.Context) (int64, error) {
	out, err := c.Run(ctx, "getactivewindow")
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(out, 10, 64)
}

// Activate raises and focuses a window.
func (c *Client) Activate(ctx context.Context, id int64) error {
	return c.RunSilent(ctx, "windowactivate", formatID(id))
}

// MapWindow makes a hidden window visible again.
func (c *Client) MapWindow(ctx context.Context, id int64) error {
	return c.RunSilent(ctx, "windowmap", formatID(id))
}

// UnmapWindow hides a window without closing it. Inactive tabs are unmapped
// so only the active tab occupies the screen.
func (c *Client) UnmapWindow(ctx context.Context, id int64) error {
	return c.RunSilent(ctx, "windowunmap", formatID(id))
}

// CloseWindow asks the window manager to close a window.
func (c *Client) CloseWindow(ctx context.Context, id int64) error {
	return c.RunSilent(ctx, "windowclose", formatID(id))
}

// WindowName returns a window's title, or "" if it cannot be read.
func (c *Client) WindowName(ctx context.Context, id int64) string {
	out, err := c.Run(ctx, "getwindowname", formatID(id))
	if err != nil {
		return ""
	}
	return out
}

// IsInstalled checks if xdotool is available.
func (c *Client) IsInstalled() bool {
	_, err := exec.LookPath("xdotool")
	return err == nil
}

// ParseWindowIDs parses whitespace-separated decimal window ids as printed
// by xdotool search. Malformed tokens are an error; the live-window set is
// the ground truth reconciliation trusts.
func ParseWindowIDs(s string) ([]int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing window id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
