package main

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"
)

func buildTestBinary(t *testing.T) string {
	binName := "tixshell_it_bin"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, string(out))
	}
	return bin
}

func binaryEnv(t *testing.T, extra ...string) []string {
	env := append(os.Environ(),
		"CONFIG_PATH=",
		"STORE_BACKEND=memory",
	)
	return append(env, extra...)
}

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// TestExitCodes checks that error categories map to distinct exit statuses.
func TestExitCodes(t *testing.T) {
	bin := buildTestBinary(t)
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	cases := []struct {
		name string
		args []string
		env  []string
		want int
	}{
		{"invalid method", []string{"request", "HEAD", "/api/events"}, nil, 2},
		{"unreachable api", []string{"request", "GET", "/api/events"}, []string{"API_BASE_URL=" + closedURL}, 4},
		{"bad config", []string{"status"}, []string{"STORE_BACKEND=postgres"}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd := exec.Command(bin, c.args...)
			cmd.Dir = t.TempDir()
			cmd.Env = binaryEnv(t, c.env...)
			err := cmd.Run()
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				t.Fatalf("expected exit error, got %v", err)
			}
			if exitErr.ExitCode() != c.want {
				t.Fatalf("expected exit code %d, got %d", c.want, exitErr.ExitCode())
			}
		})
	}
}

// TestGracefulInterrupt runs the web shell and sends SIGINT, expecting it to exit promptly.
func TestGracefulInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("interrupt signals are not supported on windows")
	}
	bin := buildTestBinary(t)
	cmd := exec.Command(bin, "serve")
	cmd.Dir = t.TempDir()
	cmd.Env = binaryEnv(t, "WEB_PORT="+strconv.Itoa(freePort(t)))
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start binary: %v", err)
	}
	// Allow startup
	time.Sleep(200 * time.Millisecond)
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to send interrupt: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("process did not exit within 3s after SIGINT")
	}
}
