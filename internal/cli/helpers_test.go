package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// recordedCall is one observed RPC call.
type recordedCall struct {
	Params any
	Method string
}

// fakeCaller scripts RPC responses per method and records every call.
type fakeCaller struct {
	results map[string]any
	errs    map[string]error
	calls   []recordedCall
	closed  bool
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		results: make(map[string]any),
		errs:    make(map[string]error),
	}
}

func (f *fakeCaller) Call(_ context.Context, method string, params, out any) error {
	f.calls = append(f.calls, recordedCall{Method: method, Params: params})
	if err, ok := f.errs[method]; ok {
		return err
	}
	result, ok := f.results[method]
	if !ok {
		return &rpc.Error{Code: rpc.CodeMethodNotFound, Message: "method not found: " + method}
	}
	if out == nil || result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeCaller) Close() error {
	f.closed = true
	return nil
}

// params returns the params of the i-th call as a map for assertions.
func (f *fakeCaller) params(t *testing.T, i int) map[string]any {
	t.Helper()
	require.Greater(t, len(f.calls), i, "expected at least %d calls", i+1)
	m, ok := f.calls[i].Params.(map[string]any)
	require.True(t, ok, "params of call %d are not a map", i)
	return m
}

// withFakeServer routes connectFunc to f for the duration of the test.
func withFakeServer(t *testing.T, f *fakeCaller) {
	t.Helper()
	orig := connectFunc
	connectFunc = func() (caller, error) { return f, nil }
	t.Cleanup(func() { connectFunc = orig })
}

// runCommand executes cmd with args and returns the combined output.
func runCommand(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
