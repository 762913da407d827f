package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInvoiceDueScan is the task type for the periodic due-invoice scan.
	TaskInvoiceDueScan = "invoice:due_scan"
	// TaskDashboardWarmup is the task type for dashboard cache warmup.
	TaskDashboardWarmup = "dashboard:warmup"
)

// InvoiceDueScanPayload parameterises the due-invoice scan.
type InvoiceDueScanPayload struct {
	WithinDays int `json:"within_days"`
}

// NewInvoiceDueScanTask constructs an Asynq task for the due scan.
func NewInvoiceDueScanTask(payload InvoiceDueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceDueScan, data), nil
}

// DashboardWarmupPayload carries options for the warmup task.
type DashboardWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardWarmupTask constructs an Asynq task for cache warmup.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
