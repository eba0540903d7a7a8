// Package relay implements the intercepting XML-RPC forwarder that sits
// between ROS nodes and the real master.
//
// Every master API method is exposed under its own name and dispatched
// through the same path: run the method's pre-forward hook if one exists
// (best effort, failures never block), then forward the original call with
// its original arguments to the upstream master and return its response
// verbatim.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rosautodoc/rosautodoc/internal/config"
	"github.com/rosautodoc/rosautodoc/internal/docwriter"
	"github.com/rosautodoc/rosautodoc/internal/metrics"
	"github.com/rosautodoc/rosautodoc/internal/util/sets"
	"github.com/rosautodoc/rosautodoc/internal/xmlrpc"
)

// hookFunc inspects a call's arguments and records documentation facts.
// A returned error is logged and suppressed; it never blocks forwarding.
type hookFunc func(params []any) error

// Relay forwards master API calls upstream and records interface facts.
//
// Calls are served one at a time: hook execution and the upstream round trip
// for a call complete before the next call is dispatched, so the document
// writer needs no synchronization of its own.
type Relay struct {
	mu       sync.Mutex
	client   *xmlrpc.Client
	writer   *docwriter.Writer
	methods  sets.Set[string]
	hooks    map[string]hookFunc
	recorder metrics.Recorder

	filterParams   sets.Set[string]
	filterPubs     sets.Set[string]
	filterSubs     sets.Set[string]
	filterServices sets.Set[string]
}

// New creates a relay forwarding to client and recording into writer.
// filters suppress facts for infrastructure-internal names. A nil recorder
// disables metrics.
func New(client *xmlrpc.Client, writer *docwriter.Writer, filters config.FilterConfig, recorder metrics.Recorder) *Relay {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	r := &Relay{
		client:         client,
		writer:         writer,
		methods:        sets.New(MasterMethods...),
		recorder:       recorder,
		filterParams:   sets.New(filters.Parameters...),
		filterPubs:     sets.New(filters.PublishedTopics...),
		filterSubs:     sets.New(filters.SubscribedTopics...),
		filterServices: sets.New(filters.Services...),
	}

	r.hooks = map[string]hookFunc{
		"registerPublisher":  r.hookRegisterPublisher,
		"registerSubscriber": r.hookRegisterSubscriber,
		"registerService":    r.hookRegisterService,
		"getParam":           r.hookParam,
		"hasParam":           r.hookParam,
		"setParam":           r.hookParam,
	}
	return r
}

// NormalizeNames makes every node name absolute by prepending the namespace
// separator when missing. Registry callers always send absolute names; this
// only affects the user-supplied tracking list.
func NormalizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		out[i] = name
	}
	return out
}

// CheckMaster verifies the upstream master is reachable, using the same
// getPid probe rosgraph uses.
func (r *Relay) CheckMaster(ctx context.Context) error {
	if _, err := r.client.Call(ctx, "getPid", []any{"/rosautodoc"}); err != nil {
		var fault *xmlrpc.Fault
		if errors.As(err, &fault) {
			// The master answered; an application fault still proves liveness.
			return nil
		}
		return fmt.Errorf("master unreachable at %s: %w", r.client.URL(), err)
	}
	return nil
}

// Handle is the xmlrpc server entrypoint. It dispatches both the master API
// surface and the system.* introspection extensions.
func (r *Relay) Handle(req *http.Request, method string, params []any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch method {
	case "system.listMethods":
		return r.listMethods(), nil
	case "system.methodHelp":
		return r.handleMethodHelp(params)
	case "system.multicall":
		return r.handleMulticall(req, params)
	}

	if !r.methods.Has(method) {
		return nil, &xmlrpc.Fault{Code: -32601, String: fmt.Sprintf("method %q is not supported", method)}
	}
	return r.dispatch(req.Context(), method, params)
}

// dispatch runs the hook-then-forward sequence for one master API call.
func (r *Relay) dispatch(ctx context.Context, method string, params []any) (any, error) {
	slog.Debug("Relaying master API call", "method", method, "caller", callerID(params))

	r.runHook(method, params)

	start := time.Now()
	result, err := r.client.Call(ctx, method, params)
	r.recorder.ObserveForwardDuration(method, time.Since(start))

	switch {
	case err == nil:
		r.recorder.IncCall(method, metrics.ResultOK)
	case isFault(err):
		r.recorder.IncCall(method, metrics.ResultFault)
	default:
		r.recorder.IncCall(method, metrics.ResultError)
	}
	return result, err
}

// runHook executes the method's hook if one is defined. Errors and panics
// are logged and swallowed so the forward path is never corrupted.
func (r *Relay) runHook(method string, params []any) {
	hook, ok := r.hooks[method]
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.recorder.IncHook(method, metrics.ResultPanic)
			slog.Error("Hook panicked", "method", method, "panic", rec, "stack", string(debug.Stack()))
		}
	}()

	if err := hook(params); err != nil {
		r.recorder.IncHook(method, metrics.ResultError)
		slog.Error("Hook failed", "method", method, "error", err)
		return
	}
	r.recorder.IncHook(method, metrics.ResultOK)
}

func (r *Relay) listMethods() []any {
	out := make([]any, 0, len(MasterMethods)+3)
	for _, m := range MasterMethods {
		out = append(out, m)
	}
	return append(out, "system.listMethods", "system.methodHelp", "system.multicall")
}

func (r *Relay) handleMethodHelp(params []any) (any, error) {
	name, ok := stringArg(params, 0)
	if !ok {
		return nil, &xmlrpc.Fault{Code: -32602, String: "system.methodHelp expects a method name"}
	}
	return methodHelp[name], nil
}

// handleMulticall executes boxed sub-calls sequentially through the regular
// dispatch path, so hooks fire for each one. Per the multicall convention,
// each success is wrapped in a one-element array and each failure becomes a
// fault struct in the result list.
func (r *Relay) handleMulticall(req *http.Request, params []any) (any, error) {
	if len(params) != 1 {
		return nil, &xmlrpc.Fault{Code: -32602, String: "system.multicall expects a single array argument"}
	}
	calls, ok := params[0].([]any)
	if !ok {
		return nil, &xmlrpc.Fault{Code: -32602, String: "system.multicall expects a single array argument"}
	}

	results := make([]any, 0, len(calls))
	for _, boxed := range calls {
		results = append(results, r.multicallOne(req, boxed))
	}
	return results, nil
}

func (r *Relay) multicallOne(req *http.Request, boxed any) any {
	call, ok := boxed.(map[string]any)
	if !ok {
		return faultStruct(-32600, "multicall entry is not a struct")
	}
	method, ok := call["methodName"].(string)
	if !ok {
		return faultStruct(-32600, "multicall entry missing methodName")
	}
	subParams, ok := call["params"].([]any)
	if !ok {
		return faultStruct(-32600, "multicall entry missing params")
	}
	if strings.HasPrefix(method, "system.") {
		return faultStruct(-32601, "recursive system calls are not allowed")
	}
	if !r.methods.Has(method) {
		return faultStruct(-32601, fmt.Sprintf("method %q is not supported", method))
	}

	result, err := r.dispatch(req.Context(), method, subParams)
	if err != nil {
		var fault *xmlrpc.Fault
		if errors.As(err, &fault) {
			return faultStruct(fault.Code, fault.String)
		}
		return faultStruct(1, err.Error())
	}
	return []any{result}
}

func faultStruct(code int, msg string) map[string]any {
	return map[string]any{"faultCode": code, "faultString": msg}
}

func isFault(err error) bool {
	var fault *xmlrpc.Fault
	return errors.As(err, &fault)
}

func callerID(params []any) string {
	id, _ := stringArg(params, 0)
	return id
}

func stringArg(params []any, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	s, ok := params[i].(string)
	return s, ok
}
