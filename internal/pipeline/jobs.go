package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a merge batch job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusMerging    JobStatus = "merging"
	StatusComposing  JobStatus = "composing"
	StatusDelivering JobStatus = "delivering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single merge batch: one template filled once per
// record, the results combined into one document.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	BatchID string `json:"batch_id"`

	Status       JobStatus `json:"status"`
	Phase        string    `json:"phase"`
	TemplateName string    `json:"template_name"`
	RecordsName  string    `json:"records_name"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Whether the template should first be converted from a .dotx package.
	ConvertTemplate bool `json:"-"`

	// Internal: not serialized.
	templateData []byte
	recordsData  []byte
	result       []byte
	errors       []string
}

// Progress tracks how far a batch has come.
type Progress struct {
	TotalRecords  int      `json:"total_records"`
	RecordsMerged int      `json:"records_merged"`
	OutputBytes   int64    `json:"output_bytes"`
	Errors        []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalRecords records how many documents the batch will produce.
func (j *Job) SetTotalRecords(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalRecords = n
	j.UpdatedAt = time.Now()
}

// IncrRecordsMerged atomically bumps the merged-record counter.
func (j *Job) IncrRecordsMerged() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RecordsMerged++
	j.UpdatedAt = time.Now()
}

// SetInputs sets the raw template and record bytes for processing.
func (j *Job) SetInputs(template, records []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.templateData = template
	j.recordsData = records
}

// Inputs returns the raw template and record bytes.
func (j *Job) Inputs() (template, records []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.templateData, j.recordsData
}

// SetResult stores the combined output bytes.
func (j *Job) SetResult(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.Progress.OutputBytes = int64(len(data))
	j.UpdatedAt = time.Now()
}

// Result returns the combined output bytes, nil until composition finished.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetContentHash records the submission hash used for dedup.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string    `json:"job_id"`
	BatchID      string    `json:"batch_id"`
	Status       JobStatus `json:"status"`
	Phase        string    `json:"phase"`
	TemplateName string    `json:"template_name"`
	RecordsName  string    `json:"records_name"`
	Progress     Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:           j.ID,
		BatchID:      j.BatchID,
		Status:       j.Status,
		Phase:        j.Phase,
		TemplateName: j.TemplateName,
		RecordsName:  j.RecordsName,
		Progress: Progress{
			TotalRecords:  j.Progress.TotalRecords,
			RecordsMerged: j.Progress.RecordsMerged,
			OutputBytes:   j.Progress.OutputBytes,
			Errors:        errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
