package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/scheduler"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
)

type fakeParser struct {
	docs map[string]pdfsource.Document
}

func (f fakeParser) ProcessDocument(ctx context.Context, path string) (pdfsource.Document, error) {
	doc, ok := f.docs[path]
	if !ok {
		return pdfsource.Document{}, errors.New("no such fixture path: " + path)
	}
	return doc, nil
}

type fakeSSIM struct{}

func (fakeSSIM) Score(a, b similarity.Image) (float64, error) { return 1.0, nil }

func rendererFactory(ctx context.Context, path string) (pdfsource.Renderer, error) {
	return pdfsource.NullRenderer{}, nil
}

func newTestServer(t *testing.T, in io.Reader, out io.Writer) (*Server, store.ComparisonRepository) {
	t.Helper()
	repo := store.NewMemory()
	doc := pdfsource.Document{PageCount: 1, Pages: []pdfsource.Page{{Index: 0, Text: "hello"}}}
	parser := fakeParser{docs: map[string]pdfsource.Document{"/a.pdf": doc, "/b.pdf": doc}}

	cfg := config.Default()
	cfg.MaxConcurrentComparisons = 2
	cfg.WorkerPoolSize = 2

	sched := scheduler.New(cfg, repo, parser, nil, rendererFactory, fakeSSIM{}, nil, nil)
	return NewServer(sched, repo, in, out), repo
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, strings.NewReader(""), out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = srv.Run(ctx)

	assert.Contains(t, out.String(), `"type":"ready"`)
}

func TestServer_Submit(t *testing.T) {
	request := `{"type":"submit","payload":{"basePath":"/a.pdf","comparePath":"/b.pdf"}}` + "\n"
	out := &bytes.Buffer{}
	srv, repo := newTestServer(t, strings.NewReader(request), out)

	err := srv.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "submit", resp.Type)

	var result SubmitResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.NotEmpty(t, result.JobID)

	_, err = repo.FindByID(context.Background(), result.JobID)
	assert.NoError(t, err)
}

func TestServer_SubmitThenTickThenStatus(t *testing.T) {
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, strings.NewReader(""), out)

	ctx := context.Background()
	submitData, _ := json.Marshal(SubmitPayload{BasePath: "/a.pdf", ComparePath: "/b.pdf"})
	srv.handleSubmit(ctx, submitData)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var submitResp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &submitResp))
	var submitResult SubmitResult
	require.NoError(t, json.Unmarshal(submitResp.Data, &submitResult))

	srv.handleTick(ctx)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		out.Reset()
		statusData, _ := json.Marshal(StatusPayload{JobID: submitResult.JobID})
		srv.handleStatus(ctx, statusData)

		var statusResp Response
		require.NoError(t, json.Unmarshal(out.Bytes(), &statusResp))
		require.True(t, statusResp.Success)

		var c map[string]any
		require.NoError(t, json.Unmarshal(statusResp.Data, &c))
		if c["Status"] == "COMPLETED" {
			return
		}
		srv.handleTick(ctx)
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job did not complete in time")
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_CloseCommand(t *testing.T) {
	request := `{"type":"close","payload":{}}` + "\n"
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, strings.NewReader(request), out)

	err := srv.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
}

func TestServer_UnknownCommand(t *testing.T) {
	request := `{"type":"invalid","payload":{}}` + "\n"
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, strings.NewReader(request), out)

	_ = srv.Run(context.Background())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var resp Response
	_ = json.Unmarshal([]byte(lines[1]), &resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	request := `{invalid json}` + "\n"
	out := &bytes.Buffer{}
	srv, _ := newTestServer(t, strings.NewReader(request), out)

	_ = srv.Run(context.Background())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)

	var resp Response
	_ = json.Unmarshal([]byte(lines[1]), &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "decode", resp.Type)
}
