package event

type EventOption func(*Event)

func WithTitle(title *string) EventOption {
	if title == nil {
		return nil
	}
	value := *title
	return func(e *Event) {
		e.Title = value
	}
}

func WithDescription(description *string) EventOption {
	if description == nil {
		return nil
	}
	value := *description
	return func(e *Event) {
		e.Description = &value
	}
}

func WithEventDate(date *Date) EventOption {
	if date == nil || date.IsZero() {
		return nil
	}
	value := *date
	return func(e *Event) {
		e.EventDate = value
	}
}

func Apply(e *Event, options ...EventOption) {
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
}
