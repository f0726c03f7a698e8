package http_request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// tickUntilDone drives r until it stops reporting Running.
func tickUntilDone(t *testing.T, r *task.Runner, bb *blackboard.Blackboard) status.Status {
	t.Helper()
	var st status.Status
	require.Eventually(t, func() bool {
		st = r.Execute(nil, bb)
		return st != status.Running
	}, 5*time.Second, 5*time.Millisecond)
	return st
}

func TestRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/echo":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(r.Method + " " + r.Header.Get("X-Agent") + " " + string(body)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	testCases := []struct {
		name     string
		args     config.Args
		want     status.Status
		wantCode int64
		wantBody string
	}{
		{
			name: "post with headers",
			args: config.Args{
				"url":     {Ref: "endpoint"},
				"method":  {Value: cty.StringVal("post")},
				"body":    {Value: cty.StringVal("hello")},
				"headers": {Value: cty.ObjectVal(map[string]cty.Value{"X-Agent": cty.StringVal("orc")})},
				"result":  {Ref: "response"},
			},
			want:     status.Success,
			wantCode: 200,
			wantBody: "POST orc hello",
		},
		{
			name: "not found fails but keeps the response",
			args: config.Args{
				"url":    {Value: cty.StringVal(server.URL + "/missing")},
				"result": {Ref: "response"},
			},
			want:     status.Failure,
			wantCode: 404,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			bb := blackboard.New("bb")
			require.NoError(t, blackboard.Set(bb, "endpoint", server.URL+"/echo"))
			f, ok := registry.New(&Module{Client: server.Client()}).Action("http_request")
			require.True(t, ok)
			a, err := f(registry.Env{}, &config.TaskDef{Kind: "http_request", Args: tc.args})
			require.NoError(t, err)
			require.NoError(t, task.Init(a, bb))

			// --- Act ---
			st := tickUntilDone(t, task.NewRunner(a), bb)

			// --- Assert ---
			assert.Equal(t, tc.want, st)
			resp, ok := bb.GetValue("response")
			require.True(t, ok)
			code, _ := resp.GetAttr("status_code").AsBigFloat().Int64()
			assert.Equal(t, tc.wantCode, code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, resp.GetAttr("body").AsString())
			}
		})
	}
}

func TestRequest_StopCancelsInFlightCall(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	arrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	a := &Request{URL: blackboard.Literal(server.URL), Client: server.Client()}
	bb := blackboard.New("bb")
	require.NoError(t, task.Init(a, bb))
	r := task.NewRunner(a)

	// --- Act ---
	require.Equal(t, status.Running, r.Execute(nil, bb))
	<-arrived
	r.Stop()

	// --- Assert ---
	assert.False(t, a.job.Active())
	assert.Equal(t, status.Resting, r.Status())
}

func TestRequest_UnreachableHostFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	a := &Request{URL: blackboard.Literal(url), Timeout: 1}
	require.NoError(t, task.Init(a, blackboard.New("bb")))
	assert.Equal(t, status.Failure, tickUntilDone(t, task.NewRunner(a), nil))
}
