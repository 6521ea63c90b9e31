package performance

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api"
	"github.com/k8s-lovers-korea/test-go-app/pkg/config"
	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
	"github.com/k8s-lovers-korea/test-go-app/pkg/logging"
)

// getFreePort returns an available TCP port on localhost.
func getFreePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer func() { _ = listener.Close() }()
	return listener.Addr().(*net.TCPAddr).Port
}

// startBenchServer boots a full server on a free local port with a silent
// logger, so measurements see the request path and not the log sink.
func startBenchServer(port int, opts ...api.Option) (*api.Server, string, error) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port

	srv := api.NewServer(cfg, append([]api.Option{api.WithLogger(logging.Nop())}, opts...)...)
	if err := srv.Start(); err != nil {
		return nil, "", err
	}

	baseURL := "http://" + cfg.Server.Addr()
	if err := waitHealthy(baseURL + "/health"); err != nil {
		_ = srv.Stop()
		return nil, "", err
	}
	return srv, baseURL, nil
}

func waitHealthy(url string) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("server at %s never became healthy", url)
}

// seedStore fills a store with n items spread across a few tag buckets.
func seedStore(store *storage.InMemoryItemStore, n int) {
	tags := [][]string{
		{"electronics"},
		{"electronics", "gaming"},
		{"office"},
		{"kitchen"},
	}
	for i := 0; i < n; i++ {
		_, _ = store.Create(&item.CreateRequest{
			Name:        fmt.Sprintf("Item %06d", i),
			Description: "benchmark fixture",
			Price:       float64(i%500) + 0.99,
			Tags:        tags[i%len(tags)],
		})
	}
}
