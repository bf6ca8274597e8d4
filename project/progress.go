package project

import (
	"context"
	"sync"

	"github.com/willibrandon/gosln/observability"
)

// ProgressMonitor receives progress from a long-running operation and
// carries its cancellation.
type ProgressMonitor interface {
	// Report sets the completed fraction of the operation, from 0 to 1
	Report(progress float64)

	// SetTaskName describes the step currently running
	SetTaskName(name string)

	Progress() float64
	TaskName() string

	// Context is cancelled when the operation should stop
	Context() context.Context
}

type nullProgressMonitor struct{}

// NullProgressMonitor returns a monitor that ignores all reports and is
// never cancelled.
func NullProgressMonitor() ProgressMonitor {
	return nullProgressMonitor{}
}

func (nullProgressMonitor) Report(float64)           {}
func (nullProgressMonitor) SetTaskName(string)       {}
func (nullProgressMonitor) Progress() float64        { return 0 }
func (nullProgressMonitor) TaskName() string         { return "" }
func (nullProgressMonitor) Context() context.Context { return context.Background() }

// LoggingProgressMonitor records progress and logs every change.
type LoggingProgressMonitor struct {
	ctx    context.Context
	logger observability.Logger

	mu       sync.Mutex
	progress float64
	taskName string
}

// NewLoggingProgressMonitor creates a monitor cancelled together with ctx.
func NewLoggingProgressMonitor(ctx context.Context, logger observability.Logger) *LoggingProgressMonitor {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &LoggingProgressMonitor{ctx: ctx, logger: logger}
}

// Report records progress, clamped to [0, 1].
func (m *LoggingProgressMonitor) Report(progress float64) {
	progress = min(max(progress, 0), 1)

	m.mu.Lock()
	m.progress = progress
	task := m.taskName
	m.mu.Unlock()

	m.logger.DebugContext(m.ctx, "{TaskName}: {Percent}% complete", task, int(progress*100))
}

// SetTaskName records the current step.
func (m *LoggingProgressMonitor) SetTaskName(name string) {
	m.mu.Lock()
	m.taskName = name
	m.mu.Unlock()

	m.logger.InfoContext(m.ctx, "{TaskName}", name)
}

// Progress returns the last reported fraction.
func (m *LoggingProgressMonitor) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

// TaskName returns the current step.
func (m *LoggingProgressMonitor) TaskName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskName
}

// Context returns the context the monitor was created with.
func (m *LoggingProgressMonitor) Context() context.Context {
	return m.ctx
}
