package broker

// Outcome is the typed result of handling one delivery. The subscribe loop
// decides acknowledgement purely from it: Processed and Dropped acknowledge
// the message, Retry negatively acknowledges with requeue.
type Outcome int

const (
	// OutcomeProcessed means the message was handled and produced its effect.
	OutcomeProcessed Outcome = iota
	// OutcomeDropped means the message was malformed or already applied;
	// it is acknowledged so a poison message cannot be redelivered forever.
	OutcomeDropped
	// OutcomeRetry means a transient failure occurred; the broker should
	// redeliver the message.
	OutcomeRetry
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeDropped:
		return "dropped"
	case OutcomeRetry:
		return "retry"
	default:
		return "unknown"
	}
}
