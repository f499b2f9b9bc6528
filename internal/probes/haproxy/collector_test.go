package haproxy

import (
	"bufio"
	"context"
	"io"
	"net"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jandubois/servicecheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, &HelperCollector{}, NewCollector(cfg))

	cfg.Transport = config.TransportSocket
	assert.IsType(t, &SocketCollector{}, NewCollector(cfg))
}

func TestHelperCollectorPassesCommandOnStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on Windows")
	}

	// sh -c receives the socket address and "stdio" as $0 and $1.
	collector := &HelperCollector{
		Helper:  []string{"/bin/sh", "-c", `cat; echo "$0 $1"`},
		Socket:  "/var/run/haproxy.sock",
		Timeout: 5 * time.Second,
	}

	reply, err := collector.Query(context.Background(), "show info")
	require.NoError(t, err)
	assert.Equal(t, "show info\nunix-connect:/var/run/haproxy.sock stdio\n", reply)
}

func TestHelperCollectorFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on Windows")
	}

	collector := &HelperCollector{
		Helper:  []string{"/bin/sh", "-c", "echo 'socket missing' >&2; exit 1"},
		Socket:  "/nonexistent.sock",
		Timeout: 5 * time.Second,
	}

	_, err := collector.Query(context.Background(), "show stat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "socket missing")
}

func TestHelperCollectorTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on Windows")
	}

	collector := &HelperCollector{
		Helper:  []string{"/bin/sh", "-c", "exec sleep 5"},
		Socket:  "/var/run/haproxy.sock",
		Timeout: 50 * time.Millisecond,
	}

	_, err := collector.Query(context.Background(), "show stat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestHelperCollectorWithoutHelper(t *testing.T) {
	_, err := (&HelperCollector{Timeout: time.Second}).Query(context.Background(), "show info")
	assert.Error(t, err)
}

func TestSocketCollector(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping on Windows")
	}

	socket := filepath.Join(t.TempDir(), "admin.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
		io.WriteString(conn, "Name: HAProxy\nVersion: 2.8.3\n\n")
	}()

	collector := &SocketCollector{Socket: socket, Timeout: 5 * time.Second}
	reply, err := collector.Query(context.Background(), "show info")
	require.NoError(t, err)

	assert.Equal(t, "show info\n", <-received)
	assert.Equal(t, "Name: HAProxy\nVersion: 2.8.3\n\n", reply)
}

func TestSocketCollectorMissingSocket(t *testing.T) {
	collector := &SocketCollector{Socket: filepath.Join(t.TempDir(), "missing.sock"), Timeout: time.Second}

	_, err := collector.Query(context.Background(), "show info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
}
