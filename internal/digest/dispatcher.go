package digest

import (
	"context"
	"encoding/json"
	"fmt"

	"stoxwatch/internal/queue"
)

// Dispatcher routes queue events to the flow that handles them.
type Dispatcher struct {
	pipeline *Pipeline
	welcome  *Welcome
}

func NewDispatcher(pipeline *Pipeline, welcome *Welcome) *Dispatcher {
	return &Dispatcher{pipeline: pipeline, welcome: welcome}
}

// Handle returns an error only for events it cannot interpret.
func (d *Dispatcher) Handle(ctx context.Context, event queue.Event) (Status, error) {
	if event.Name == queue.EventUserCreated {
		var u UserCreated
		if err := json.Unmarshal(event.Data, &u); err != nil {
			return Status{}, fmt.Errorf("decode %s: %w", event.Name, err)
		}
		if u.Email == "" {
			return Status{}, fmt.Errorf("%s: email is required", event.Name)
		}
		return d.welcome.Send(ctx, u), nil
	}

	job, ok := JobByEvent(event.Name)
	if !ok {
		return Status{}, fmt.Errorf("unknown event %q", event.Name)
	}
	return d.pipeline.Run(ctx, job), nil
}
