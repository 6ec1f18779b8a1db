package ledger

// Invoker runs a queued instruction against the governed program once its
// proposal reached the execution phase. The engine signs the call with its
// derived authority; failures propagate verbatim to the caller.
type Invoker interface {
	Invoke(target Address, instruction []byte, accounts []Address) error
}

// InvokerFunc adapts a plain function to the Invoker interface.
type InvokerFunc func(target Address, instruction []byte, accounts []Address) error

func (f InvokerFunc) Invoke(target Address, instruction []byte, accounts []Address) error {
	return f(target, instruction, accounts)
}

// NoopInvoker accepts every call without doing anything. Useful when the
// governed program lives outside the process and execution is relayed later.
type NoopInvoker struct{}

func (NoopInvoker) Invoke(Address, []byte, []Address) error { return nil }
