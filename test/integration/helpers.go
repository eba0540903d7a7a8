package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosautodoc/rosautodoc/internal/config"
	"github.com/rosautodoc/rosautodoc/internal/docwriter"
	"github.com/rosautodoc/rosautodoc/internal/relay"
	"github.com/rosautodoc/rosautodoc/internal/xmlrpc"
)

// testHarness wires a fake upstream master, a real relay serving over HTTP,
// and a client that plays the role of ROS nodes.
type testHarness struct {
	writer *docwriter.Writer
	client *xmlrpc.Client

	upstreamCalls []string
}

// newHarness starts the fake master and the relay. Both servers are torn
// down with the test.
func newHarness(t *testing.T, trackedNodes []string) *testHarness {
	t.Helper()
	h := &testHarness{}

	master := httptest.NewServer(xmlrpc.NewServerHandler(
		func(_ *http.Request, method string, _ []any) (any, error) {
			h.upstreamCalls = append(h.upstreamCalls, method)
			return []any{1, "", 0}, nil
		}))
	t.Cleanup(master.Close)

	h.writer = docwriter.New(relay.NormalizeNames(trackedNodes))
	rl := relay.New(xmlrpc.NewClient(master.URL), h.writer, config.Default().Filters, nil)
	require.NoError(t, rl.CheckMaster(context.Background()), "health check against fake master")
	h.upstreamCalls = nil

	proxy := httptest.NewServer(xmlrpc.NewServerHandler(rl.Handle))
	t.Cleanup(proxy.Close)
	h.client = xmlrpc.NewClient(proxy.URL)

	return h
}

// call performs one XML-RPC call through the relay and asserts it succeeded.
func (h *testHarness) call(t *testing.T, method string, params ...any) {
	t.Helper()
	_, err := h.client.Call(context.Background(), method, params)
	require.NoError(t, err, "call %s", method)
}

// compareWithGolden asserts that every golden file matches the rendered
// output, and that no unexpected files were produced.
func compareWithGolden(t *testing.T, outputDir, goldenDir string, update bool) {
	t.Helper()

	if update {
		require.NoError(t, os.RemoveAll(goldenDir))
		require.NoError(t, os.MkdirAll(goldenDir, 0o755))
	}

	rendered, err := os.ReadDir(outputDir)
	require.NoError(t, err)

	for _, entry := range rendered {
		got, err := os.ReadFile(filepath.Join(outputDir, entry.Name()))
		require.NoError(t, err)

		goldenPath := filepath.Join(goldenDir, entry.Name())
		if update {
			require.NoError(t, os.WriteFile(goldenPath, got, 0o644))
			continue
		}

		want, err := os.ReadFile(goldenPath)
		require.NoError(t, err, "missing golden file for %s", entry.Name())
		require.Equal(t, string(want), string(got), "content mismatch for %s", entry.Name())
	}

	if !update {
		golden, err := os.ReadDir(goldenDir)
		require.NoError(t, err)
		require.Len(t, rendered, len(golden), "rendered file set differs from golden set")
	}
}
