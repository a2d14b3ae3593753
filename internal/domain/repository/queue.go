package repository

import "context"

// CollectTask asks the collector worker to run the pipeline.
// An empty Region with AllRegions set requests a full multi-region batch.
// Date is a calendar day in YYYY-MM-DD form; empty means today.
type CollectTask struct {
	Region     string `json:"region,omitempty"`
	AllRegions bool   `json:"all_regions,omitempty"`
	Date       string `json:"date,omitempty"`
	Attempt    int    `json:"attempt"`
}

// MessageQueue defines the interface for publishing and consuming collection tasks.
type MessageQueue interface {
	// PublishCollectTask sends a collection task to the queue.
	PublishCollectTask(ctx context.Context, task CollectTask) error

	// ConsumeCollectTasks starts consuming tasks, invoking handler for each.
	// Blocks until ctx is cancelled or an unrecoverable error occurs.
	// A handler error retries the task with an incremented Attempt until the
	// implementation's retry budget is spent, then discards it.
	ConsumeCollectTasks(ctx context.Context, handler func(task CollectTask) error) error
}
