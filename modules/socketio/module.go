package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

const defaultTimeout = 10 * time.Second

// Emit connects to a Socket.IO server, optionally emits an event and waits
// for a reply event. The action is Running until the reply arrives; the
// reply payload is stored in Result when one is bound.
type Emit struct {
	task.Contextual

	URL                string                      `arg:"url,required"`
	Namespace          string                      `arg:"namespace"`
	OnEvent            string                      `arg:"on_event,required"`
	EmitEvent          string                      `arg:"emit_event"`
	EmitData           blackboard.Param[cty.Value] `arg:"emit_data"`
	Timeout            float64                     `arg:"timeout"`
	InsecureSkipVerify bool                        `arg:"insecure_skip_verify"`
	Result             blackboard.Param[cty.Value] `arg:"result"`

	job task.Job[any]
}

func (e *Emit) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "emit_data", Param: &e.EmitData},
		{Field: "result", Param: &e.Result, BlackboardOnly: true},
	}
}

func (e *Emit) Init(*blackboard.Blackboard) error {
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("socketio: failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("socketio: URL %q needs a scheme and a host", e.URL)
	}
	return nil
}

func (e *Emit) Execute(any, *blackboard.Blackboard) status.Status {
	if !e.job.Active() {
		e.launch()
	}

	data, finished, err := e.job.Poll()
	if !finished {
		return status.Running
	}
	logger := ctxlog.FromContext(e.Context())
	if err != nil {
		logger.Warn("Socket.IO exchange failed.", "url", e.URL, "error", err)
		return status.Failure
	}
	if e.Result.UseBlackboard() && !e.Result.IsNone() {
		val, err := blackboard.FromNative(data)
		if err != nil {
			logger.Warn("Could not convert Socket.IO reply.", "error", err)
			return status.Failure
		}
		if err := e.Result.Set(val); err != nil {
			return status.Failure
		}
	}
	return status.Success
}

func (e *Emit) launch() {
	ex := exchange{
		url:       e.URL,
		namespace: e.Namespace,
		onEvent:   e.OnEvent,
		emitEvent: e.EmitEvent,
		emitData:  blackboard.Native(e.EmitData.Get()),
		timeout:   time.Duration(e.Timeout * float64(time.Second)),
		insecure:  e.InsecureSkipVerify,
	}
	if ex.timeout <= 0 {
		ex.timeout = defaultTimeout
	}
	e.job.Launch(e.Context(), ex.run)
}

func (e *Emit) Stop()  { e.job.Cancel() }
func (e *Emit) Pause() {}

// exchange is a snapshot of the arguments taken on the ticking goroutine.
type exchange struct {
	url, namespace     string
	onEvent, emitEvent string
	emitData           any
	timeout            time.Duration
	insecure           bool
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

func (x exchange) run(ctx context.Context) (any, error) {
	logger := ctxlog.FromContext(ctx).With("action", "socketio", "url", x.url, "onEvent", x.onEvent, "emitEvent", x.emitEvent)
	logger.Debug("Exchange started")
	defer logger.Debug("Exchange finished")

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	parsedURL, err := url.Parse(x.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if x.insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(x.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	deliver := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected", "namespace", x.namespace, "sid", io.Id())
		if x.emitEvent != "" {
			jsonData, _ := json.Marshal(x.emitData)
			logger.Debug("Emitting event", "event", x.emitEvent, "data", string(jsonData))
			io.Emit(x.emitEvent, x.emitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		deliver(opResult{err: err})
	})

	io.On(types.EventName(x.onEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		deliver(opResult{value: responseData})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", x.onEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("socketio", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &Emit{}
		return a, registry.Decode(def.Args, a)
	})
}
