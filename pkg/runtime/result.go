package runtime

import "basic/pkg/errors"

// Result carries the outcome of evaluating one node: a value, an error, or
// neither when the node produced no value.
type Result struct {
	Value *Value
	Err   errors.BasicError
}

// Register folds sub into r and returns its value. The first error wins;
// callers check r.Err after every Register.
func (r *Result) Register(sub *Result) *Value {
	if sub.Err != nil && r.Err == nil {
		r.Err = sub.Err
	}
	return sub.Value
}

func (r *Result) Success(v *Value) *Result {
	r.Value = v
	return r
}

func (r *Result) Failure(err errors.BasicError) *Result {
	if r.Err == nil {
		r.Err = err
	}
	return r
}
