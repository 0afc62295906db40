package vm

import "math/big"

func registerStackOps(t *JumpTable) {
	t.register(DEPTH, "DEPTH", 0, func(e *Engine, in Instruction) error {
		e.Push(MustNewInteger(big.NewInt(int64(e.CurrentContext().EvaluationStack().Count()))))
		return nil
	})
	t.register(DROP, "DROP", 1, func(e *Engine, in Instruction) error {
		_, err := e.Pop()
		return err
	})
	t.register(NIP, "NIP", 2, func(e *Engine, in Instruction) error {
		top, err := e.Pop()
		if err != nil {
			return err
		}
		if _, err := e.Pop(); err != nil {
			return err
		}
		e.Push(top)
		return nil
	})
	t.register(XDROP, "XDROP", 1, func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		_, err = e.CurrentContext().EvaluationStack().Remove(n)
		return err
	})
	t.register(CLEAR, "CLEAR", 0, func(e *Engine, in Instruction) error {
		e.CurrentContext().EvaluationStack().Clear()
		return nil
	})
	t.register(DUP, "DUP", 1, func(e *Engine, in Instruction) error {
		item, err := e.Peek(0)
		if err != nil {
			return err
		}
		e.Push(item)
		return nil
	})
	t.register(OVER, "OVER", 2, func(e *Engine, in Instruction) error {
		item, err := e.Peek(1)
		if err != nil {
			return err
		}
		e.Push(item)
		return nil
	})
	t.register(PICK, "PICK", 1, func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		item, err := e.Peek(n)
		if err != nil {
			return err
		}
		e.Push(item)
		return nil
	})
	t.register(TUCK, "TUCK", 2, func(e *Engine, in Instruction) error {
		top, err := e.Pop()
		if err != nil {
			return err
		}
		second, err := e.Pop()
		if err != nil {
			return err
		}
		e.Push(top)
		e.Push(second)
		e.Push(top)
		return nil
	})
	t.register(SWAP, "SWAP", 2, func(e *Engine, in Instruction) error {
		top, err := e.Pop()
		if err != nil {
			return err
		}
		second, err := e.Pop()
		if err != nil {
			return err
		}
		e.Push(top)
		e.Push(second)
		return nil
	})
	t.register(ROT, "ROT", 3, func(e *Engine, in Instruction) error {
		top, err := e.Pop()
		if err != nil {
			return err
		}
		second, err := e.Pop()
		if err != nil {
			return err
		}
		third, err := e.Pop()
		if err != nil {
			return err
		}
		e.Push(second)
		e.Push(top)
		e.Push(third)
		return nil
	})
	t.register(ROLL, "ROLL", 1, func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		item, err := e.CurrentContext().EvaluationStack().Remove(n)
		if err != nil {
			return err
		}
		e.Push(item)
		return nil
	})
	t.register(REVERSE3, "REVERSE3", 3, func(e *Engine, in Instruction) error {
		return e.CurrentContext().EvaluationStack().Reverse(3)
	})
	t.register(REVERSE4, "REVERSE4", 4, func(e *Engine, in Instruction) error {
		return e.CurrentContext().EvaluationStack().Reverse(4)
	})
	t.register(REVERSEN, "REVERSEN", 1, func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		return e.CurrentContext().EvaluationStack().Reverse(n)
	})
}
