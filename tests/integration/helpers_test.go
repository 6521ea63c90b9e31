// Package integration exercises the assembled server over real HTTP.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/k8s-lovers-korea/test-go-app/pkg/api"
	"github.com/k8s-lovers-korea/test-go-app/pkg/config"
	"github.com/k8s-lovers-korea/test-go-app/pkg/logging"
)

// globalPortCounter hands out unique ports so parallel tests never race
// for the same listener. Starting at 30000 to stay clear of common ports.
var globalPortCounter uint32 = 30000

func getFreePort() int {
	for attempts := 0; attempts < 100; attempts++ {
		port := int(atomic.AddUint32(&globalPortCounter, 1))
		if isPortFree(port) {
			return port
		}
	}
	return int(atomic.AddUint32(&globalPortCounter, 1))
}

func isPortFree(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// startServer boots a full server on a free local port and tears it down
// with the test. mutate adjusts the default config before startup.
func startServer(t *testing.T, mutate func(cfg *config.Config)) string {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = getFreePort()
	// One second keeps blocking-simulation tests quick to drain.
	cfg.Simulation.DefaultBlockDuration = 1
	if mutate != nil {
		mutate(cfg)
	}

	srv := api.NewServer(cfg, api.WithLogger(logging.Nop()))
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	baseURL := "http://" + cfg.Server.Addr()
	waitForReady(t, baseURL+"/health")
	return baseURL
}

func waitForReady(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s never became healthy", url)
}

// doJSON performs one JSON round-trip and decodes the response into out
// when out is non-nil.
func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
	}
	return resp.StatusCode
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}
