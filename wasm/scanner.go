//go:build wasm

package main

import (
	"context"
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/scheduler"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
)

type handleEntry struct {
	sched *scheduler.Scheduler
	repo  store.ComparisonRepository
}

var (
	schedulers   = make(map[int]handleEntry)
	schedulersMu sync.RWMutex
	nextID       int
)

func wasmRendererFactory(ctx context.Context, path string) (pdfsource.Renderer, error) {
	return pdfsource.NullRenderer{}, nil
}

// newScheduler creates a new in-memory-backed scheduler.
// JS: PDFCompareNewScheduler() -> {handle: int}
func newScheduler(this js.Value, args []js.Value) interface{} {
	repo := store.NewMemory()
	sched := scheduler.New(
		config.Default(),
		repo,
		pdfsource.NewLedongthucParser(),
		pdfsource.WholeDocumentDetector{},
		wasmRendererFactory,
		similarity.BasicSSIMKernel{},
		nil,
		nil,
	)

	schedulersMu.Lock()
	id := nextID
	nextID++
	schedulers[id] = handleEntry{sched: sched, repo: repo}
	schedulersMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// submit submits a comparison job for the two given file paths, resolved
// by whatever filesystem the wasm host environment makes available to
// github.com/ledongthuc/pdf's os.Open calls (a virtual FS under Node.js,
// for example — the browser sandbox has none).
// JS: PDFCompareSubmit(handle, basePath, comparePath) -> {jobId: string} or {error}
func submit(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return map[string]interface{}{"error": "handle, basePath and comparePath arguments required"}
	}

	entry, ok := lookupHandle(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid scheduler handle"}
	}

	id, err := entry.sched.Submit(context.Background(), args[1].String(), args[2].String())
	if err != nil {
		return map[string]interface{}{"error": "submit failed: " + err.Error()}
	}
	return map[string]interface{}{"jobId": id}
}

// tick drives one admission pass of the scheduler.
// JS: PDFCompareTick(handle)
func tick(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	entry, ok := lookupHandle(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid scheduler handle"}
	}

	entry.sched.Tick(context.Background())
	return map[string]interface{}{"activeCount": entry.sched.ActiveCount()}
}

// status returns the current state of a submitted job as JSON.
// JS: PDFCompareStatus(handle, jobId) -> JSON Comparison or {error}
func status(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and jobId arguments required"}
	}

	entry, ok := lookupHandle(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid scheduler handle"}
	}

	c, err := entry.repo.FindByID(context.Background(), args[1].String())
	if err != nil {
		return map[string]interface{}{"error": "status lookup failed: " + err.Error()}
	}

	jsonBytes, err := json.Marshal(c)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal status: " + err.Error()}
	}
	return string(jsonBytes)
}

// closeScheduler releases a scheduler handle's store resources.
// JS: PDFCompareCloseScheduler(handle)
func closeScheduler(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	schedulersMu.Lock()
	entry, ok := schedulers[handle]
	if ok {
		delete(schedulers, handle)
	}
	schedulersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid scheduler handle"}
	}

	entry.repo.Close()
	return nil
}

func lookupHandle(handle int) (handleEntry, bool) {
	schedulersMu.RLock()
	defer schedulersMu.RUnlock()
	entry, ok := schedulers[handle]
	return entry, ok
}
