package api

import (
	"sort"

	"dubber/internal/queue"
	"dubber/internal/workflow"
)

// FromJob converts a queue job into its wire view.
func FromJob(job *queue.Job) JobView {
	if job == nil {
		return JobView{}
	}
	return JobView{
		ID:               job.ID,
		Title:            job.Title,
		SourcePath:       job.SourcePath,
		TargetLanguage:   job.TargetLanguage,
		Status:           string(job.Status),
		ProgressStage:    job.ProgressStage,
		ProgressPercent:  job.ProgressPercent,
		ProgressMessage:  job.ProgressMessage,
		ErrorMessage:     job.ErrorMessage,
		NeedsReview:      job.NeedsReview,
		ReviewReason:     job.ReviewReason,
		SpeakerCount:     job.SpeakerCount,
		SynthesizedCount: job.SynthesizedCount,
		SkippedCount:     job.SkippedCount,
		FinalFile:        job.FinalFile,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		LastHeartbeat:    job.LastHeartbeat,
	}
}

// FromJobs converts a job slice into wire views, preserving order.
func FromJobs(jobs []*queue.Job) []JobView {
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, FromJob(job))
	}
	return views
}

// FromStatusSummary converts the workflow diagnostics into the wire shape.
// Stage health entries are sorted by name so output is stable.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:   summary.Running,
		LastError: summary.LastError,
	}
	if len(summary.QueueStats) > 0 {
		status.QueueStats = make(map[string]int, len(summary.QueueStats))
		for key, count := range summary.QueueStats {
			status.QueueStats[string(key)] = count
		}
	}
	if len(summary.StageHealth) > 0 {
		status.StageHealth = make([]StageHealthView, 0, len(summary.StageHealth))
		for _, health := range summary.StageHealth {
			status.StageHealth = append(status.StageHealth, StageHealthView{
				Name:   health.Name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
		sort.Slice(status.StageHealth, func(i, j int) bool {
			return status.StageHealth[i].Name < status.StageHealth[j].Name
		})
	}
	return status
}
