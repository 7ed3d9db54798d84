package uploader

import (
	"sync"

	"house_marketplace_backend/platform/events"
)

// TaskState tracks one upload's lifecycle:
// pending → running → (paused ⇄ running)* → succeeded | failed.
// Paused is reported only by stores that support suspended transfers; the
// MinIO adapter streams straight through and never emits it.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskRunning   TaskState = "running"
	TaskPaused    TaskState = "paused"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// Task is one image upload within a batch. It lives from batch start until
// the batch resolves or fails.
type Task struct {
	mu          sync.Mutex
	index       int
	key         string
	state       TaskState
	transferred int64
	total       int64
	url         string
	err         error
}

func newTask(index int, key string, total int64) *Task {
	return &Task{index: index, key: key, total: total, state: TaskPending}
}

// Snapshot is an immutable view of a task for observers.
type Snapshot struct {
	Key         string    `json:"key"`
	State       TaskState `json:"state"`
	Transferred int64     `json:"transferred"`
	Total       int64     `json:"total"`
	URL         string    `json:"url,omitempty"`
}

// Snapshot returns the current task state.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Key:         t.key,
		State:       t.state,
		Transferred: t.transferred,
		Total:       t.total,
		URL:         t.url,
	}
}

func (t *Task) run() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TaskRunning
}

func (t *Task) progress(transferred int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if transferred > t.total {
		transferred = t.total
	}
	t.transferred = transferred
}

func (t *Task) succeed(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TaskSucceeded
	t.transferred = t.total
	t.url = url
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TaskFailed
	t.err = err
}

// ProgressEvent is published on the event bus as tasks move through their
// states. It carries no control flow: the batch result is decided solely by
// the join in UploadAll.
type ProgressEvent struct {
	events.BaseEvent
	OwnerID     string    `json:"ownerId"`
	Key         string    `json:"key"`
	State       TaskState `json:"state"`
	Transferred int64     `json:"transferred"`
	Total       int64     `json:"total"`
}

// EventName identifies upload progress events on the bus.
func (ProgressEvent) EventName() string { return "listing.upload.progress" }
