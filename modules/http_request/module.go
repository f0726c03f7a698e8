package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package. Client
// is shared by every request; nil selects a pooled default.
type Module struct {
	Client *http.Client
}

// NewClient returns the pooled client used when none is injected.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Request performs one HTTP call on a background goroutine. The action is
// Running until the response arrives, succeeds on a 2xx status and stores
// {status_code, body} in Result when one is bound.
type Request struct {
	task.Contextual

	URL     blackboard.Param[string]    `arg:"url,required"`
	Method  string                      `arg:"method"`
	Body    blackboard.Param[string]    `arg:"body"`
	Headers map[string]string           `arg:"headers"`
	Timeout float64                     `arg:"timeout"`
	Result  blackboard.Param[cty.Value] `arg:"result"`

	Client *http.Client

	job task.Job[cty.Value]
}

func (r *Request) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "url", Param: &r.URL, Required: true},
		{Field: "body", Param: &r.Body},
		{Field: "result", Param: &r.Result, BlackboardOnly: true},
	}
}

func (r *Request) Execute(any, *blackboard.Blackboard) status.Status {
	if !r.job.Active() {
		r.launch()
	}

	out, finished, err := r.job.Poll()
	if !finished {
		return status.Running
	}
	logger := ctxlog.FromContext(r.Context())
	if err != nil {
		logger.Warn("HTTP request failed.", "url", r.URL.String(), "error", err)
		return status.Failure
	}
	if r.Result.UseBlackboard() && !r.Result.IsNone() {
		if err := r.Result.Set(out); err != nil {
			logger.Warn("Could not store HTTP response.", "error", err)
			return status.Failure
		}
	}
	code, _ := out.GetAttr("status_code").AsBigFloat().Int64()
	if code < 200 || code > 299 {
		return status.Failure
	}
	return status.Success
}

// launch snapshots the arguments on the ticking goroutine and starts the
// call.
func (r *Request) launch() {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	url := r.URL.Get()
	body := r.Body.Get()
	headers := r.Headers
	timeout := time.Duration(r.Timeout * float64(time.Second))
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	r.job.Launch(r.Context(), func(ctx context.Context) (cty.Value, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return do(ctx, client, method, url, body, headers)
	})
}

func do(ctx context.Context, client *http.Client, method, url, body string, headers map[string]string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Making HTTP request", "method", method, "url", url)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read response body: %w", err)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode)),
		"body":        cty.StringVal(string(bodyBytes)),
	}), nil
}

// Stop abandons an in-flight call.
func (r *Request) Stop() { r.job.Cancel() }

// Pause lets an in-flight call complete; its result is collected on resume.
func (r *Request) Pause() {}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	client := m.Client
	if client == nil {
		client = NewClient(0)
	}
	r.RegisterAction("http_request", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &Request{Client: client}
		return a, registry.Decode(def.Args, a)
	})
}
