package vm

import (
	"fmt"

	"github.com/r3e-network/neo-vm-go/internal/nvmlog"
)

// Host supplies the two extension points NeoVM delegates to its embedder:
// interop service dispatch (SYSCALL) and token-based method resolution
// (CALLT). A nil Host faults both with ErrNotImplemented, which is enough
// to run scripts that never use either instruction.
type Host interface {
	SysCall(e *Engine, token uint32) error
	LoadToken(e *Engine, token uint16) error
}

// Engine runs a script to completion, one instruction at a time, per
// execution_engine.rs. It owns the invocation stack, the result stack, and
// the reference counter shared by every context's evaluation stack.
type Engine struct {
	state     State
	isJumping bool

	jumpTable *JumpTable
	limits    Limits
	refs      *ReferenceCounter
	host      Host
	log       *nvmlog.Logger

	invocationStack    []*ExecutionContext
	resultStack        *EvaluationStack
	uncaughtException  Item
}

// NewEngine constructs an idle engine (State == StateNone) ready for
// LoadScript. host may be nil if the script never executes SYSCALL/CALLT.
func NewEngine(limits Limits, host Host) *Engine {
	refs := NewReferenceCounter()
	return &Engine{
		jumpTable:   NewJumpTable(),
		limits:      limits,
		refs:        refs,
		host:        host,
		log:         nvmlog.Default().Module("engine"),
		resultStack: NewEvaluationStack(refs),
	}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) ResultStack() *EvaluationStack { return e.resultStack }

func (e *Engine) UncaughtException() Item { return e.uncaughtException }

func (e *Engine) ReferenceCounter() *ReferenceCounter { return e.refs }

// CurrentContext returns the innermost execution context, or nil if the
// invocation stack is empty.
func (e *Engine) CurrentContext() *ExecutionContext {
	if len(e.invocationStack) == 0 {
		return nil
	}
	return e.invocationStack[len(e.invocationStack)-1]
}

// LoadScript pushes a new entry context for script and transitions the
// engine from StateNone to running. rvCount is the number of values the
// caller expects on HALT (-1 disables the check).
func (e *Engine) LoadScript(script *Script, rvCount int) error {
	ctx := NewExecutionContext(script, rvCount, e.refs)
	return e.loadContext(ctx)
}

func (e *Engine) loadContext(ctx *ExecutionContext) error {
	if len(e.invocationStack) >= e.limits.MaxInvocationStackSize {
		return fmt.Errorf("%w: depth=%d", ErrInvocationStackOverflow, len(e.invocationStack))
	}
	e.invocationStack = append(e.invocationStack, ctx)
	return nil
}

func (e *Engine) unloadContext(ctx *ExecutionContext) {
	if ctx.LocalVariables() != nil {
		ctx.LocalVariables().ClearReferences()
	}
	if ctx.Arguments() != nil {
		ctx.Arguments().ClearReferences()
	}
	if len(e.invocationStack) == 0 && ctx.StaticFields() != nil {
		ctx.StaticFields().ClearReferences()
	}
}

// Push places item on the current context's evaluation stack.
func (e *Engine) Push(item Item) {
	e.CurrentContext().EvaluationStack().Push(item)
}

// Pop removes and returns the top of the current context's evaluation
// stack, faulting the engine if the stack is empty.
func (e *Engine) Pop() (Item, error) {
	item, err := e.CurrentContext().EvaluationStack().Pop()
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Peek returns the item index positions below the top of the current
// context's evaluation stack.
func (e *Engine) Peek(index int) (Item, error) {
	return e.CurrentContext().EvaluationStack().Peek(index)
}

// Execute runs instructions until the engine halts, faults, or breaks,
// returning the final state.
func (e *Engine) Execute() State {
	if e.state == StateFault {
		return e.state
	}
	if len(e.invocationStack) == 0 {
		e.state = StateHalt
		return e.state
	}
	for e.state != StateHalt && e.state != StateFault && e.state != StateBreak {
		if err := e.executeNext(); err != nil {
			e.fault(err)
			break
		}
	}
	return e.state
}

// fault transitions the engine to StateFault and logs the cause.
func (e *Engine) fault(err error) {
	e.state = StateFault
	e.log.Error("engine fault", "error", err)
}

// executeNext decodes and runs exactly one instruction in the current
// context, then advances the instruction pointer unless the instruction
// itself already transferred control (is_jumping, per control.rs).
func (e *Engine) executeNext() error {
	ctx := e.CurrentContext()
	if ctx == nil {
		e.state = StateHalt
		return nil
	}

	in, err := ctx.CurrentInstruction()
	if err != nil {
		return err
	}

	op := e.jumpTable[in.Opcode]
	if op == nil {
		return fmt.Errorf("%w: %s", ErrInvalidOpcode, in.Opcode)
	}
	if ctx.EvaluationStack().Count() < op.MinStack {
		return fmt.Errorf("%w: %s needs %d, have %d", ErrInvalidParameter, op.Name, op.MinStack, ctx.EvaluationStack().Count())
	}

	e.isJumping = false
	if err := op.Execute(e, in); err != nil {
		return err
	}

	// A terminal state skips advancing the instruction pointer (there is
	// nothing left to advance to), but still gets the post-execute
	// reference count check below: a final RET that leaves too many live
	// references reachable must fault instead of quietly halting.
	if e.state != StateFault && e.state != StateHalt {
		if !e.isJumping {
			if !ctx.MoveNext() {
				// Ran off the end of the script without RET: treat as an
				// implicit RET (spec.md's entry-context convenience).
				if err := e.jumpTable[RET].Execute(e, RetInstruction); err != nil {
					return err
				}
			}
		}
	}

	if e.refs.Count() > e.limits.MaxStackSize {
		if e.refs.CheckZeroReferred() > e.limits.MaxStackSize {
			return fmt.Errorf("%w: count=%d", ErrMaxStackSizeExceeded, e.refs.Count())
		}
	}

	return nil
}

// executeJumpOffset resolves a relative offset against the current
// instruction pointer and transfers control there.
func (e *Engine) executeJumpOffset(offset int) error {
	ctx := e.CurrentContext()
	return e.executeJump(ctx.InstructionPointer() + offset)
}

func (e *Engine) executeJump(position int) error {
	ctx := e.CurrentContext()
	if position < 0 || position >= ctx.Script().Len() {
		return fmt.Errorf("%w: target=%d", ErrInvalidJumpTarget, position)
	}
	if err := ctx.SetInstructionPointer(position); err != nil {
		return err
	}
	e.isJumping = true
	return nil
}

// executeCall pushes a new frame sharing the current context's script,
// evaluation stack, and static fields, starting at position.
func (e *Engine) executeCall(position int) error {
	callee := e.CurrentContext().CloneAt(position)
	return e.loadContext(callee)
}

// executeTry pushes a new exception handler onto the current context.
func (e *Engine) executeTry(catchOffset, finallyOffset int) error {
	if catchOffset == 0 && finallyOffset == 0 {
		return fmt.Errorf("%w: TRY with no catch and no finally", ErrInvalidParameter)
	}
	ctx := e.CurrentContext()
	var catchPointer, finallyPointer int
	hasCatch, hasFinally := catchOffset != 0, finallyOffset != 0
	if hasCatch {
		catchPointer = ctx.InstructionPointer() + catchOffset
	}
	if hasFinally {
		finallyPointer = ctx.InstructionPointer() + finallyOffset
	}
	h := newExceptionHandler(catchPointer, hasCatch, finallyPointer, hasFinally)
	return ctx.PushTry(h, e.limits.MaxTryNestingDepth)
}

// executeEndTry closes the current TRY/CATCH clause: if a FINALLY clause
// is registered it runs next (with the end target remembered for
// ENDFINALLY), otherwise the handler is popped and control jumps straight
// to the end target.
func (e *Engine) executeEndTry(endOffset int) error {
	ctx := e.CurrentContext()
	h := ctx.CurrentTry()
	if h == nil {
		return fmt.Errorf("%w: ENDTRY with no active handler", ErrInvalidEndFinally)
	}
	if h.state == handlerFinally {
		return fmt.Errorf("%w: ENDTRY inside FINALLY", ErrInvalidEndFinally)
	}
	endPointer := ctx.InstructionPointer() + endOffset
	if h.hasFinally {
		h.state = handlerFinally
		h.endPointer = endPointer
		if err := ctx.SetInstructionPointer(h.finallyPointer); err != nil {
			return err
		}
	} else {
		ctx.PopTry()
		if err := ctx.SetInstructionPointer(endPointer); err != nil {
			return err
		}
	}
	e.isJumping = true
	return nil
}

// executeEndFinally resumes after a FINALLY clause: it re-raises whatever
// exception was pending before the FINALLY ran, or jumps to the remembered
// end pointer if none was pending.
func (e *Engine) executeEndFinally() error {
	ctx := e.CurrentContext()
	h := ctx.PopTry()
	if h == nil {
		return fmt.Errorf("%w: ENDFINALLY with no active handler", ErrInvalidEndFinally)
	}
	if h.state == handlerFinally && e.uncaughtException == nil {
		if err := ctx.SetInstructionPointer(h.endPointer); err != nil {
			return err
		}
		e.isJumping = true
		return nil
	}
	if e.uncaughtException != nil {
		exc := e.uncaughtException
		e.uncaughtException = nil
		return e.throw(exc)
	}
	if err := ctx.SetInstructionPointer(h.endPointer); err != nil {
		return err
	}
	e.isJumping = true
	return nil
}

// throw implements control.rs's execute_throw: it unwinds the invocation
// stack looking for the nearest still-open CATCH or FINALLY clause,
// popping and unloading every frame in between. If nothing catches it the
// engine faults with ErrUncaughtException.
func (e *Engine) throw(exception Item) error {
	e.uncaughtException = exception
	pop := 0
	for i := len(e.invocationStack) - 1; i >= 0; i-- {
		ctx := e.invocationStack[i]
		for {
			h := ctx.CurrentTry()
			if h == nil {
				break
			}
			if h.state == handlerFinally || (h.state == handlerCatch && !h.hasFinally) {
				ctx.PopTry()
				continue
			}
			for ; pop > 0; pop-- {
				top := e.invocationStack[len(e.invocationStack)-1]
				e.invocationStack = e.invocationStack[:len(e.invocationStack)-1]
				e.unloadContext(top)
			}
			if h.state == handlerTry && h.hasCatch {
				h.state = handlerCatch
				e.Push(e.uncaughtException)
				if err := ctx.SetInstructionPointer(h.catchPointer); err != nil {
					return err
				}
				e.uncaughtException = nil
			} else {
				h.state = handlerFinally
				if err := ctx.SetInstructionPointer(h.finallyPointer); err != nil {
					return err
				}
			}
			e.isJumping = true
			return nil
		}
		pop++
	}
	return fmt.Errorf("%w: %v", ErrUncaughtException, exception)
}
