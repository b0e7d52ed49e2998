package lang

// Completion says how an evaluation step finished.
type Completion int

const (
	Normal Completion = iota
	Return
	Break
	Continue
	Failed
)

func (c Completion) String() string {
	switch c {
	case Normal:
		return "normal"
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result carries exactly one outcome of evaluating a node: a value, a
// return signal with its value, a break or continue signal, or an error.
type Result struct {
	Kind  Completion
	Value Value
	Err   error
}

func success(v Value) Result {
	return Result{Kind: Normal, Value: v}
}

func failure(err error) Result {
	return Result{Kind: Failed, Err: err}
}

// Interrupted reports whether the result must stop evaluation of sibling
// nodes.
func (r Result) Interrupted() bool {
	return r.Kind != Normal
}
