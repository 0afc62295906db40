package vm

// handlerState tracks which clause of a TRY block is currently active.
type handlerState int

const (
	handlerTry handlerState = iota
	handlerCatch
	handlerFinally
)

// exceptionHandler is one entry on an execution context's try stack,
// recording the jump targets TRY established and which clause is live.
type exceptionHandler struct {
	catchPointer   int
	hasCatch       bool
	finallyPointer int
	hasFinally     bool
	endPointer     int
	state          handlerState
}

func newExceptionHandler(catchPointer int, hasCatch bool, finallyPointer int, hasFinally bool) *exceptionHandler {
	return &exceptionHandler{
		catchPointer:   catchPointer,
		hasCatch:       hasCatch,
		finallyPointer: finallyPointer,
		hasFinally:     hasFinally,
		state:          handlerTry,
	}
}
