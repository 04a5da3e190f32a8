// Package fileops applies clipboard-style file operations to the filesystem.
// Every source path is attempted independently and failures are collected
// into a Result instead of aborting the batch.
package fileops

// Op is the operation a paste performs.
type Op int

const (
	OpCopy Op = iota
	OpMove
)

func (o Op) String() string {
	if o == OpMove {
		return "move"
	}
	return "copy"
}

// Clipboard holds at most one pending operation. Paths are captured when the
// clipboard is filled and are not re-resolved from marks later.
type Clipboard struct {
	Op    Op
	Paths []string
}

// Empty reports whether there is nothing to paste.
func (c Clipboard) Empty() bool {
	return len(c.Paths) == 0
}

// Result is the outcome of a batch operation.
type Result struct {
	Done     []string // resulting paths of every successful item
	Failures []error  // one *apperr.Error per failed item
	Touched  []string // directories whose listing changed
}

// Err joins the failures, nil when everything succeeded.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return joinErrors(r.Failures)
}

func (r *Result) touch(dir string) {
	for _, d := range r.Touched {
		if d == dir {
			return
		}
	}
	r.Touched = append(r.Touched, dir)
}

func (r *Result) fail(err error) {
	r.Failures = append(r.Failures, err)
}
