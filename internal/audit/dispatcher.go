package audit

import "go.uber.org/zap"

type Event struct {
	Action       string
	ResourceType string
	ResourceID   string
	ActorID      string
	Changes      any
	Details      any
}

// Dispatcher writes audit rows off the request path. Audit logging is a
// compliance aid, not a correctness dependency: a failed or dropped write
// never fails the primary operation.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.Action,
			ev.ResourceType,
			ev.ResourceID,
			ev.ActorID,
			ev.Changes,
			ev.Details,
		); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}
