package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusCleaning    JobStatus = "cleaning"
	StatusClassifying JobStatus = "classifying"
	StatusPackaging   JobStatus = "packaging"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Options Options `json:"options"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	epub     []byte
	epubHash string
	errors   []string
}

// Progress tracks conversion progress.
type Progress struct {
	Fraction    float64  `json:"fraction"`
	Blocks      int      `json:"blocks"`
	Headings    int      `json:"headings"`
	Paragraphs  int      `json:"paragraphs"`
	CleanerUsed string   `json:"cleaner_used,omitempty"`
	Errors      []string `json:"errors"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(id, filename string, data []byte, opts Options) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// SetFraction records overall completion. Values never move backwards.
func (j *Job) SetFraction(f float64) {
	f = min(max(f, 0), 1)
	j.mu.Lock()
	defer j.mu.Unlock()
	if f > j.Progress.Fraction {
		j.Progress.Fraction = f
		j.UpdatedAt = time.Now()
	}
}

// SetOutcome records the block counts and the cleaner that produced them.
func (j *Job) SetOutcome(blocks, headings int, cleanerUsed string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Blocks = blocks
	j.Progress.Headings = headings
	j.Progress.Paragraphs = blocks - headings
	j.Progress.CleanerUsed = cleanerUsed
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetEPUB stores the packaged book and drops the upload.
func (j *Job) SetEPUB(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.epub = data
	j.epubHash = ContentHashHex(data)
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// EPUB returns the packaged book and its SHA-256, or nil before completion.
func (j *Job) EPUB() ([]byte, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.epub, j.epubHash
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Cleaner   string    `json:"cleaner"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Options.Title,
		Cleaner:   string(j.Options.Cleaner),
		Progress:  p,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
