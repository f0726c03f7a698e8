package upload

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Client *http.Client
}

// Upload PUTs a local file to a pre-signed URL, such as one issued by S3.
// It is Running while the transfer is in flight and succeeds on 200 OK.
type Upload struct {
	task.Contextual

	Source blackboard.Param[string] `arg:"source,required"`
	URL    blackboard.Param[string] `arg:"url,required"`
	Status blackboard.Param[string] `arg:"status"`

	Client *http.Client

	job task.Job[string]
}

func (u *Upload) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "source", Param: &u.Source, Required: true},
		{Field: "url", Param: &u.URL, Required: true},
		{Field: "status", Param: &u.Status, BlackboardOnly: true},
	}
}

func (u *Upload) Execute(any, *blackboard.Blackboard) status.Status {
	if !u.job.Active() {
		source, url, client := u.Source.Get(), u.URL.Get(), u.Client
		u.job.Launch(u.Context(), func(ctx context.Context) (string, error) {
			return put(ctx, client, source, url)
		})
	}

	got, finished, err := u.job.Poll()
	if !finished {
		return status.Running
	}
	if u.Status.UseBlackboard() && !u.Status.IsNone() && got != "" {
		_ = u.Status.Set(got)
	}
	if err != nil {
		ctxlog.FromContext(u.Context()).Warn("Upload failed.", "source", u.Source.String(), "error", err)
		return status.Failure
	}
	return status.Success
}

func (u *Upload) Stop()  { u.job.Cancel() }
func (u *Upload) Pause() {}

// put streams the file at path to url and returns the response status line.
func put(ctx context.Context, client *http.Client, path, url string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source file '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Debug("Uploading file", "source", path, "size", stat.Size(), "contentType", contentType)

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.Status, fmt.Errorf("upload failed with status: %s", resp.Status)
	}
	logger.Debug("Successfully uploaded file", "status", resp.Status)
	return resp.Status, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("upload", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &Upload{Client: m.Client}
		return a, registry.Decode(def.Args, a)
	})
}
