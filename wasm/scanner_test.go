//go:build wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"testing"
)

// TestSchedulerCreation tests creating a scheduler handle.
func TestSchedulerCreation(t *testing.T) {
	result := newScheduler(js.Value{}, nil)

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}

	if errMsg, hasError := resultMap["error"]; hasError {
		t.Fatalf("Failed to create scheduler: %v", errMsg)
	}

	handle, hasHandle := resultMap["handle"]
	if !hasHandle {
		t.Fatal("Expected handle in result")
	}

	closeScheduler(js.Value{}, []js.Value{js.ValueOf(handle)})
}

// TestSubmitMissingFiles exercises the submit path against file paths that
// do not exist, which is the only deterministic way to drive Submit without
// a real PDF fixture available to the wasm host filesystem.
func TestSubmitMissingFiles(t *testing.T) {
	createResult := newScheduler(js.Value{}, nil)
	handle := createResult.(map[string]interface{})["handle"].(int)
	defer closeScheduler(js.Value{}, []js.Value{js.ValueOf(handle)})

	result := submit(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf("testdata/missing-a.pdf"),
		js.ValueOf("testdata/missing-b.pdf"),
	})

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}

	jobID, hasJobID := resultMap["jobId"]
	if !hasJobID {
		t.Fatalf("Expected jobId in result, got %v", resultMap)
	}
	if jobID == "" {
		t.Error("Expected non-empty jobId")
	}
}

// TestSubmitThenTickThenStatus exercises the full submit/tick/status cycle,
// which lands the job in a failed state because the test file paths don't
// resolve to real PDFs.
func TestSubmitThenTickThenStatus(t *testing.T) {
	createResult := newScheduler(js.Value{}, nil)
	handle := createResult.(map[string]interface{})["handle"].(int)
	defer closeScheduler(js.Value{}, []js.Value{js.ValueOf(handle)})

	submitResult := submit(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf("testdata/missing-a.pdf"),
		js.ValueOf("testdata/missing-b.pdf"),
	})
	jobID := submitResult.(map[string]interface{})["jobId"].(string)

	tickResult := tick(js.Value{}, []js.Value{js.ValueOf(handle)})
	if _, ok := tickResult.(map[string]interface{})["error"]; ok {
		t.Fatalf("Unexpected tick error: %v", tickResult)
	}

	statusResult := status(js.Value{}, []js.Value{js.ValueOf(handle), js.ValueOf(jobID)})
	jsonStr, ok := statusResult.(string)
	if !ok {
		t.Fatalf("Expected string result, got %T: %v", statusResult, statusResult)
	}

	var comparison map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &comparison); err != nil {
		t.Fatalf("Failed to parse status: %v", err)
	}

	if comparison["ID"] != jobID {
		t.Errorf("Expected id %q, got %v", jobID, comparison["ID"])
	}
}

// TestCloseScheduler tests scheduler handle cleanup.
func TestCloseScheduler(t *testing.T) {
	createResult := newScheduler(js.Value{}, nil)
	handle := createResult.(map[string]interface{})["handle"].(int)

	closeResult := closeScheduler(js.Value{}, []js.Value{js.ValueOf(handle)})
	if closeResult != nil {
		if errMap, ok := closeResult.(map[string]interface{}); ok {
			t.Fatalf("Close failed: %v", errMap["error"])
		}
	}

	// Using a closed handle should error.
	result := submit(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf("testdata/missing-a.pdf"),
		js.ValueOf("testdata/missing-b.pdf"),
	})

	errMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected error map, got %T", result)
	}
	if _, hasError := errMap["error"]; !hasError {
		t.Error("Expected error when using closed scheduler handle")
	}
}

// TestInvalidHandle tests error handling for invalid scheduler handles.
func TestInvalidHandle(t *testing.T) {
	result := status(js.Value{}, []js.Value{
		js.ValueOf(99999),
		js.ValueOf("some-job-id"),
	})

	errMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected error map, got %T", result)
	}
	if _, hasError := errMap["error"]; !hasError {
		t.Error("Expected error for invalid handle")
	}
}
