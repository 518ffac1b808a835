package task

// TaskOption overwrites one field of a stored task. A nil option means the
// field was absent from the request and is skipped.
type TaskOption func(*Task)

func WithTitle(title *string) TaskOption {
	if title == nil {
		return nil
	}
	value := *title
	return func(task *Task) {
		task.Title = value
	}
}

func WithDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	value := *description
	return func(task *Task) {
		task.Description = &value
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

// Apply runs every non-nil option against t.
func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
