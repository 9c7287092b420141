package errors

const (
	// ErrEngineState covers operations invoked in the wrong lifecycle
	// state: update() after finalize(), feed() outside IDLE/RECEIVE,
	// word() before done.
	ErrEngineState = 2101
	// ErrEngineRange covers word() called with an out-of-range block
	// or word index.
	ErrEngineRange = 2102
	// ErrEngineOverflow covers a bounded message buffer exceeded on
	// feed().
	ErrEngineOverflow = 2103
)

// ErrCode maps an error code to its human-readable message.
var ErrCode = map[uint32]string{
	ErrEngineState:    "operation invoked in wrong lifecycle state",
	ErrEngineRange:    "block or word index out of range",
	ErrEngineOverflow: "bounded message buffer exceeded",
}
