package domain

// State is the aggregator loop state
type State int32

const (
	// StateIdle means Run has not been called
	StateIdle State = iota
	// StateAwaitingFirst waits for the record that opens a batch
	StateAwaitingFirst
	// StateCollecting fills an open batch until size or timer
	StateCollecting
	// StateDispatching calls the backend and routes results
	StateDispatching
	// StateShutdown is terminal
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirst:
		return "awaiting_first"
	case StateCollecting:
		return "collecting"
	case StateDispatching:
		return "dispatching"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Running reports whether the loop can still accept and answer records
func (s State) Running() bool {
	return s == StateAwaitingFirst || s == StateCollecting || s == StateDispatching
}

// Stats is a point-in-time snapshot of aggregator counters
type Stats struct {
	State        string  `json:"state"         example:"awaiting_first"`
	Submitted    int64   `json:"submitted"     example:"120"`
	Batches      int64   `json:"batches"       example:"17"`
	BySize       int64   `json:"by_size"       example:"12"`
	ByTimer      int64   `json:"by_timer"      example:"5"`
	ByDrain      int64   `json:"by_drain"      example:"0"`
	Delivered    int64   `json:"delivered"     example:"118"`
	Failed       int64   `json:"failed"        example:"2"`
	Aborted      int64   `json:"aborted"       example:"0"`
	Queued       int     `json:"queued"        example:"3"`
	QueueClosed  bool    `json:"queue_closed"  example:"false"`
	AvgBatchSize float64 `json:"avg_batch_size" example:"7.06"`
}
