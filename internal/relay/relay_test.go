package relay

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rosautodoc/rosautodoc/internal/config"
	"github.com/rosautodoc/rosautodoc/internal/docformat"
	"github.com/rosautodoc/rosautodoc/internal/docwriter"
	"github.com/rosautodoc/rosautodoc/internal/xmlrpc"
)

// fakeMaster runs an upstream master that records the calls it receives and
// answers every method with a fixed ROS triple.
type fakeMaster struct {
	srv     *httptest.Server
	methods []string
}

func newFakeMaster(t *testing.T) *fakeMaster {
	t.Helper()
	fm := &fakeMaster{}
	fm.srv = httptest.NewServer(xmlrpc.NewServerHandler(
		func(_ *http.Request, method string, _ []any) (any, error) {
			fm.methods = append(fm.methods, method)
			return []any{1, "ok from master", 0}, nil
		}))
	t.Cleanup(fm.srv.Close)
	return fm
}

func newTestRelay(t *testing.T, tracked []string) (*Relay, *docwriter.Writer, *fakeMaster) {
	t.Helper()
	fm := newFakeMaster(t)
	w := docwriter.New(tracked)
	rl := New(xmlrpc.NewClient(fm.srv.URL), w, config.Default().Filters, nil)
	return rl, w, fm
}

func call(t *testing.T, rl *Relay, method string, params []any) (any, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	return rl.Handle(req, method, params)
}

func TestForwardsAndReturnsUpstreamResult(t *testing.T) {
	rl, w, fm := newTestRelay(t, nil)

	result, err := call(t, rl, "registerPublisher",
		[]any{"/talker", "/chatter", "std_msgs/String", "http://localhost:4242/"})
	if err != nil {
		t.Fatalf("expected forwarded call to succeed: %v", err)
	}
	if !reflect.DeepEqual(result, []any{1, "ok from master", 0}) {
		t.Errorf("upstream result was altered: %v", result)
	}
	if len(fm.methods) != 1 || fm.methods[0] != "registerPublisher" {
		t.Errorf("expected one forwarded registerPublisher, got %v", fm.methods)
	}

	names := w.Names()
	if len(names) != 1 || names[0] != "/talker" {
		t.Errorf("expected publication fact for /talker, got %v", names)
	}
}

func TestExclusionListSuppressesFactButForwards(t *testing.T) {
	rl, w, fm := newTestRelay(t, nil)

	_, err := call(t, rl, "registerPublisher",
		[]any{"/talker", "/rosout", "rosgraph_msgs/Log", "http://localhost:4242/"})
	if err != nil {
		t.Fatalf("forward must succeed: %v", err)
	}

	if len(w.Names()) != 0 {
		t.Errorf("filtered topic must not create a record, got %v", w.Names())
	}
	if len(fm.methods) != 1 {
		t.Errorf("filtered topic must still be forwarded, got %v", fm.methods)
	}
}

func TestFilteredParametersNotRecorded(t *testing.T) {
	rl, w, fm := newTestRelay(t, nil)

	for _, key := range []string{"/use_sim_time", "/tcp_keepalive"} {
		if _, err := call(t, rl, "getParam", []any{"/talker", key}); err != nil {
			t.Fatalf("forward must succeed: %v", err)
		}
	}
	if _, err := call(t, rl, "setParam", []any{"/talker", "/talker/rate", 10}); err != nil {
		t.Fatalf("forward must succeed: %v", err)
	}

	if len(w.Names()) != 1 {
		t.Fatalf("expected exactly one documented node, got %v", w.Names())
	}
	if len(fm.methods) != 3 {
		t.Errorf("all three calls must be forwarded, got %v", fm.methods)
	}
}

func TestHookPanicDoesNotBlockForwarding(t *testing.T) {
	rl, _, fm := newTestRelay(t, nil)
	rl.hooks["registerPublisher"] = func([]any) error { panic("hook exploded") }

	result, err := call(t, rl, "registerPublisher",
		[]any{"/talker", "/chatter", "std_msgs/String", "http://localhost:4242/"})
	if err != nil {
		t.Fatalf("panicking hook must not fail the call: %v", err)
	}
	if !reflect.DeepEqual(result, []any{1, "ok from master", 0}) {
		t.Errorf("upstream result was altered: %v", result)
	}
	if len(fm.methods) != 1 {
		t.Errorf("call was not forwarded: %v", fm.methods)
	}
}

func TestHookArgMismatchIsSuppressed(t *testing.T) {
	rl, w, fm := newTestRelay(t, nil)

	// topic argument is an int, the hook must log and give up.
	if _, err := call(t, rl, "registerPublisher", []any{"/talker", 42}); err != nil {
		t.Fatalf("malformed hook args must not fail the forward: %v", err)
	}
	if len(w.Names()) != 0 {
		t.Errorf("no fact should be recorded, got %v", w.Names())
	}
	if len(fm.methods) != 1 {
		t.Errorf("call was not forwarded: %v", fm.methods)
	}
}

func TestUpstreamFaultPropagates(t *testing.T) {
	fm := &fakeMaster{}
	fm.srv = httptest.NewServer(xmlrpc.NewServerHandler(
		func(_ *http.Request, _ string, _ []any) (any, error) {
			return nil, &xmlrpc.Fault{Code: -1, String: "unknown node"}
		}))
	defer fm.srv.Close()

	rl := New(xmlrpc.NewClient(fm.srv.URL), docwriter.New(nil), config.Default().Filters, nil)

	_, err := call(t, rl, "lookupNode", []any{"/caller", "/ghost"})
	var fault *xmlrpc.Fault
	if !errors.As(err, &fault) || fault.Code != -1 {
		t.Fatalf("expected upstream fault to propagate, got %v", err)
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	rl, _, fm := newTestRelay(t, nil)

	_, err := call(t, rl, "shutdown", []any{"/caller"})
	var fault *xmlrpc.Fault
	if !errors.As(err, &fault) || fault.Code != -32601 {
		t.Fatalf("expected method-not-found fault, got %v", err)
	}
	if len(fm.methods) != 0 {
		t.Errorf("unknown method must not be forwarded, got %v", fm.methods)
	}
}

func TestServiceRecordedWithUnknownType(t *testing.T) {
	rl, w, _ := newTestRelay(t, []string{"/srv"})

	_, err := call(t, rl, "registerService",
		[]any{"/srv", "/srv/reset", "rosrpc://localhost:5000", "http://localhost:4242/"})
	if err != nil {
		t.Fatal(err)
	}

	lines := renderLines(t, w, "/srv")
	assertContains(t, lines, "- ~/reset [UNKNOWN] -- TODO: description")
}

func TestMulticallRunsHooksPerSubcall(t *testing.T) {
	rl, w, fm := newTestRelay(t, nil)

	result, err := call(t, rl, "system.multicall", []any{[]any{
		map[string]any{
			"methodName": "registerSubscriber",
			"params":     []any{"/listener", "/chatter", "std_msgs/String", "http://localhost:4242/"},
		},
		map[string]any{
			"methodName": "bogusMethod",
			"params":     []any{},
		},
	}})
	if err != nil {
		t.Fatalf("multicall failed: %v", err)
	}

	results, ok := result.([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 multicall results, got %v", result)
	}
	if _, ok := results[0].([]any); !ok {
		t.Errorf("expected boxed success result, got %v", results[0])
	}
	if _, ok := results[1].(map[string]any); !ok {
		t.Errorf("expected fault struct for unknown method, got %v", results[1])
	}

	if len(fm.methods) != 1 || fm.methods[0] != "registerSubscriber" {
		t.Errorf("expected only the valid sub-call forwarded, got %v", fm.methods)
	}
	if len(w.Names()) != 1 || w.Names()[0] != "/listener" {
		t.Errorf("expected subscription fact recorded, got %v", w.Names())
	}
}

func TestListMethodsCoversMasterAPI(t *testing.T) {
	rl, _, _ := newTestRelay(t, nil)

	result, err := call(t, rl, "system.listMethods", nil)
	if err != nil {
		t.Fatal(err)
	}
	listed, ok := result.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", result)
	}
	if len(listed) != len(MasterMethods)+3 {
		t.Errorf("expected %d methods, got %d", len(MasterMethods)+3, len(listed))
	}
}

func TestNormalizeNames(t *testing.T) {
	got := NormalizeNames([]string{"talker", "/listener"})
	want := []string{"/talker", "/listener"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func renderLines(t *testing.T, w *docwriter.Writer, node string) []string {
	t.Helper()
	dir := t.TempDir()
	if err := w.RenderAll(dir, docformat.Markdown); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	stem := strings.TrimPrefix(strings.ReplaceAll(node, "/", "_"), "_")
	data, err := os.ReadFile(filepath.Join(dir, stem+".md"))
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func assertContains(t *testing.T, lines []string, want string) {
	t.Helper()
	for _, line := range lines {
		if line == want {
			return
		}
	}
	t.Errorf("expected line %q in:\n%s", want, strings.Join(lines, "\n"))
}
