package usecase

import "time"

// BatchResult counts the outcome of a batch step. A failed item never aborts the batch.
type BatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Add merges other into r.
func (r *BatchResult) Add(other BatchResult) {
	r.Processed += other.Processed
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// StepObserver is notified after every cycle step. The metrics package implements it.
type StepObserver interface {
	ObserveStep(step string, duration time.Duration, result BatchResult, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveStep(string, time.Duration, BatchResult, error) {}
