package vm

import "fmt"

// sharedState is the part of an execution context CALL/CALLA/CALLT share
// with the callee: the script, its evaluation stack, and its static field
// slot. Local variables, arguments, and the try stack are NOT shared; each
// call frame gets its own (see Clone/CloneAt).
type sharedState struct {
	script          *Script
	evaluationStack *EvaluationStack
	staticFields    *Slot
	state           map[string]any
}

// ExecutionContext is one frame of the invocation stack: a script plus an
// instruction pointer plus the local/argument slots and try handlers
// specific to this call.
type ExecutionContext struct {
	shared             *sharedState
	rvCount            int
	instructionPointer int
	localVariables     *Slot
	arguments          *Slot
	tryStack           []*exceptionHandler
}

// NewExecutionContext creates the entry context for script: rvCount is the
// number of return values the caller expects (-1 means "don't check").
func NewExecutionContext(script *Script, rvCount int, refs *ReferenceCounter) *ExecutionContext {
	return &ExecutionContext{
		shared: &sharedState{
			script:          script,
			evaluationStack: NewEvaluationStack(refs),
			state:           make(map[string]any),
		},
		rvCount: rvCount,
	}
}

func (c *ExecutionContext) RVCount() int { return c.rvCount }

func (c *ExecutionContext) Script() *Script { return c.shared.script }

func (c *ExecutionContext) EvaluationStack() *EvaluationStack { return c.shared.evaluationStack }

func (c *ExecutionContext) StaticFields() *Slot { return c.shared.staticFields }

func (c *ExecutionContext) SetStaticFields(s *Slot) { c.shared.staticFields = s }

func (c *ExecutionContext) LocalVariables() *Slot { return c.localVariables }

func (c *ExecutionContext) SetLocalVariables(s *Slot) { c.localVariables = s }

func (c *ExecutionContext) Arguments() *Slot { return c.arguments }

func (c *ExecutionContext) SetArguments(s *Slot) { c.arguments = s }

func (c *ExecutionContext) InstructionPointer() int { return c.instructionPointer }

func (c *ExecutionContext) SetInstructionPointer(ip int) error {
	if ip < 0 || ip > c.shared.script.Len() {
		return fmt.Errorf("%w: ip=%d", ErrInvalidInstructionPointer, ip)
	}
	c.instructionPointer = ip
	return nil
}

// PushTry pushes a new handler frame, enforcing maxDepth.
func (c *ExecutionContext) PushTry(h *exceptionHandler, maxDepth int) error {
	if len(c.tryStack) >= maxDepth {
		return fmt.Errorf("%w: depth=%d", ErrTryNestingOverflow, len(c.tryStack))
	}
	c.tryStack = append(c.tryStack, h)
	return nil
}

// CurrentTry returns the innermost handler, or nil if none is active.
func (c *ExecutionContext) CurrentTry() *exceptionHandler {
	if len(c.tryStack) == 0 {
		return nil
	}
	return c.tryStack[len(c.tryStack)-1]
}

// PopTry removes and returns the innermost handler, or nil if none exists.
func (c *ExecutionContext) PopTry() *exceptionHandler {
	if len(c.tryStack) == 0 {
		return nil
	}
	h := c.tryStack[len(c.tryStack)-1]
	c.tryStack = c.tryStack[:len(c.tryStack)-1]
	return h
}

// CurrentInstruction decodes the instruction at the current IP.
func (c *ExecutionContext) CurrentInstruction() (Instruction, error) {
	return c.shared.script.GetInstruction(c.instructionPointer)
}

// MoveNext advances the instruction pointer past the current instruction
// and reports whether the new position is still inside the script.
func (c *ExecutionContext) MoveNext() bool {
	in, err := c.CurrentInstruction()
	if err != nil {
		return false
	}
	c.instructionPointer += in.Size()
	return c.instructionPointer < c.shared.script.Len()
}

// GetState returns the context-local value stored under key, constructing
// it with zero if absent. Used by host extension points (host.go) to stash
// per-call state without threading extra fields through ExecutionContext.
func GetState[T any](c *ExecutionContext, key string, zero func() T) T {
	if v, ok := c.shared.state[key]; ok {
		return v.(T)
	}
	v := zero()
	c.shared.state[key] = v
	return v
}

// Clone returns a new context sharing this one's script, evaluation stack,
// and static fields, starting execution at this context's current IP, with
// fresh (empty) local variables, arguments, and try stack. This is the
// frame CALL/CALLA push: shared globals, private locals.
func (c *ExecutionContext) Clone() *ExecutionContext {
	return c.CloneAt(c.instructionPointer)
}

// CloneAt is Clone but starting at an explicit instruction pointer (the
// call target, for CALL/CALLA/CALLT).
func (c *ExecutionContext) CloneAt(ip int) *ExecutionContext {
	return &ExecutionContext{
		shared:             c.shared,
		rvCount:            0,
		instructionPointer: ip,
	}
}
