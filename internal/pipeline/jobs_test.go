package pipeline

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestContentHashHex_KnownVector(t *testing.T) {
	got := ContentHashHex([]byte("hello world"))
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestContentHashHex_Empty(t *testing.T) {
	got := ContentHashHex(nil)
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusQueued, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing records"},
		{StatusMerging, "merging documents"},
		{StatusComposing, "composing output"},
		{StatusDelivering, "delivering"},
		{StatusCompleted, "done"},
	}
	for _, tr := range transitions {
		job.SetStatus(tr.status, tr.phase)
		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("expected status %s, got %s", tr.status, snap.Status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("expected phase %s, got %s", tr.phase, snap.Phase)
		}
	}
}

func TestJob_ProgressCounting(t *testing.T) {
	job := &Job{ID: "j1"}
	job.SetTotalRecords(50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.IncrRecordsMerged()
		}()
	}
	wg.Wait()

	snap := job.Snapshot()
	if snap.Progress.TotalRecords != 50 {
		t.Errorf("expected 50 total, got %d", snap.Progress.TotalRecords)
	}
	if snap.Progress.RecordsMerged != 50 {
		t.Errorf("expected 50 merged, got %d", snap.Progress.RecordsMerged)
	}
}

func TestJob_InputsAndResult(t *testing.T) {
	job := &Job{ID: "j1"}
	job.SetInputs([]byte("template"), []byte("records"))

	tmpl, recs := job.Inputs()
	if string(tmpl) != "template" || string(recs) != "records" {
		t.Errorf("inputs not round-tripped: %q %q", tmpl, recs)
	}

	if job.Result() != nil {
		t.Error("expected nil result before composition")
	}
	job.SetResult([]byte("output"))
	if string(job.Result()) != "output" {
		t.Errorf("unexpected result: %q", job.Result())
	}
	if got := job.Snapshot().Progress.OutputBytes; got != 6 {
		t.Errorf("expected 6 output bytes, got %d", got)
	}
}

func TestJob_Errors(t *testing.T) {
	job := &Job{ID: "j1"}
	job.AddError("record 3: field \"City\" not found")
	job.AddError("delivery attempt 1 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobSnapshot_ErrorsNeverNullInJSON(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusQueued}
	data, err := json.Marshal(job.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	progress, ok := decoded["progress"].(map[string]any)
	if !ok {
		t.Fatalf("missing progress object: %s", data)
	}
	if _, ok := progress["errors"].([]any); !ok {
		t.Errorf("errors should serialize as an array, got %v", progress["errors"])
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "j1", UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("j1"); got != job {
		t.Error("expected stored job back")
	}
	if got := store.Get("missing"); got != nil {
		t.Error("expected nil for unknown ID")
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(time.Minute)
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	stale := &Job{ID: "stale", UpdatedAt: time.Now().Add(-2 * time.Minute)}
	store.Put(fresh)
	store.Put(stale)

	store.Cleanup()

	if store.Get("fresh") == nil {
		t.Error("fresh job must survive cleanup")
	}
	if store.Get("stale") != nil {
		t.Error("stale job must be evicted")
	}
}
