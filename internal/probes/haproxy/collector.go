package haproxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/jandubois/servicecheck/internal/config"
)

// Collector sends one admin-socket command and returns the raw reply.
type Collector interface {
	Query(ctx context.Context, command string) (string, error)
}

// NewCollector returns the collector for the configured transport.
func NewCollector(cfg *config.HAProxy) Collector {
	if cfg.Transport == config.TransportSocket {
		return &SocketCollector{Socket: cfg.Socket, Timeout: cfg.Timeout()}
	}
	return &HelperCollector{Helper: cfg.Helper, Socket: cfg.Socket, Timeout: cfg.Timeout()}
}

// HelperCollector runs a privileged helper (sudo socat by default) that
// bridges stdin/stdout to the admin socket:
//
//	<helper...> unix-connect:<socket> stdio
type HelperCollector struct {
	Helper  []string
	Socket  string
	Timeout time.Duration
}

// Query implements Collector.
func (c *HelperCollector) Query(ctx context.Context, command string) (string, error) {
	if len(c.Helper) == 0 {
		return "", errors.New("no helper command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	args := append(append([]string{}, c.Helper[1:]...), "unix-connect:"+c.Socket, "stdio")
	cmd := exec.CommandContext(ctx, c.Helper[0], args...)
	cmd.Stdin = strings.NewReader(command + "\n")
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", c.Helper[0], c.Timeout)
		}
		return "", fmt.Errorf("%s: %w (stderr: %s)", strings.Join(c.Helper, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// SocketCollector talks to the admin socket directly. The process needs
// permission to open the socket.
type SocketCollector struct {
	Socket  string
	Timeout time.Duration
}

// Query implements Collector.
func (c *SocketCollector) Query(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.Socket)
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", c.Socket, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", fmt.Errorf("set deadline: %w", err)
		}
	}
	if _, err := io.WriteString(conn, command+"\n"); err != nil {
		return "", fmt.Errorf("send %q: %w", command, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read reply to %q: %w", command, err)
	}
	return string(reply), nil
}
