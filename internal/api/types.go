package api

import "time"

// JobView is the wire representation of a queued dubbing job.
type JobView struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	SourcePath       string     `json:"source_path"`
	TargetLanguage   string     `json:"target_language"`
	Status           string     `json:"status"`
	ProgressStage    string     `json:"progress_stage,omitempty"`
	ProgressPercent  float64    `json:"progress_percent"`
	ProgressMessage  string     `json:"progress_message,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	NeedsReview      bool       `json:"needs_review,omitempty"`
	ReviewReason     string     `json:"review_reason,omitempty"`
	SpeakerCount     int        `json:"speaker_count,omitempty"`
	SynthesizedCount int        `json:"synthesized_count,omitempty"`
	SkippedCount     int        `json:"skipped_count,omitempty"`
	FinalFile        string     `json:"final_file,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastHeartbeat    *time.Time `json:"last_heartbeat,omitempty"`
}

// SubmitRequest enqueues a new dubbing job.
type SubmitRequest struct {
	Source         string `json:"source"`
	TargetLanguage string `json:"target_language"`
}

// QueueListResponse wraps a job listing.
type QueueListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// QueueJobResponse wraps a single job lookup.
type QueueJobResponse struct {
	Job JobView `json:"job"`
}

// ActionResponse reports how many jobs an operation touched.
type ActionResponse struct {
	Affected int64 `json:"affected"`
}

// StageHealthView reports one stage health check.
type StageHealthView struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// WorkflowStatus summarizes the manager for status endpoints.
type WorkflowStatus struct {
	Running     bool              `json:"running"`
	LastError   string            `json:"last_error,omitempty"`
	QueueStats  map[string]int    `json:"queue_stats,omitempty"`
	StageHealth []StageHealthView `json:"stage_health,omitempty"`
}

// DaemonStatus is the /api/status payload.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	QueueDBPath  string         `json:"queue_db_path"`
	LockFilePath string         `json:"lock_file_path"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// HealthResponse is the /api/health payload.
type HealthResponse struct {
	Healthy    bool              `json:"healthy"`
	Total      int               `json:"total"`
	Pending    int               `json:"pending"`
	Processing int               `json:"processing"`
	Failed     int               `json:"failed"`
	Review     int               `json:"review"`
	Completed  int               `json:"completed"`
	Stages     []StageHealthView `json:"stages,omitempty"`
}

// ErrorResponse carries a handler failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}
