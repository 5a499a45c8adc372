// Package filterexpr compiles JavaScript `where` expressions (goja) into
// problem predicates. The expression sees one variable, problem, shaped
// like the problem's JSON form:
//
//	problem.difficulty >= 1 && !problem.solved.value
//	problem.grandparent.startsWith("Graph")
package filterexpr

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 100 * time.Millisecond

// Predicate is a compiled where expression. It is safe for concurrent use;
// evaluations are serialized on one JavaScript runtime.
type Predicate struct {
	src     string
	timeout time.Duration

	mu     sync.Mutex
	vm     *goja.Runtime
	fn     goja.Callable
	errors int
}

// Compile parses src and returns a predicate over problems.
func Compile(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, invalid("expression is empty")
	}

	prog, err := goja.Compile("where", "(function(problem) { return ("+src+"\n); })", false)
	if err != nil {
		return nil, invalid(err.Error())
	}

	vm := goja.New()
	v, err := vm.RunProgram(prog)
	if err != nil {
		return nil, invalid(err.Error())
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, invalid("expression did not compile to a function")
	}

	return &Predicate{src: src, timeout: DefaultTimeout, vm: vm, fn: fn}, nil
}

func invalid(msg string) *model.APIError {
	return model.NewValidationError("invalid where expression",
		model.FieldError{Field: "where", Message: msg})
}

// String returns the expression source.
func (p *Predicate) String() string { return p.src }

// Match evaluates the expression for pr. The result is coerced with
// JavaScript truthiness. A runtime error (or timeout) counts as no match
// and is also returned.
func (p *Predicate) Match(pr model.Problem) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fired := make(chan struct{})
	timer := time.AfterFunc(p.timeout, func() {
		p.vm.Interrupt("timeout")
		close(fired)
	})
	res, err := p.fn(goja.Undefined(), p.vm.ToValue(problemObject(pr)))
	if !timer.Stop() {
		<-fired
	}
	p.vm.ClearInterrupt()

	if err != nil {
		p.errors++
		return false, fmt.Errorf("where %q on %s: %w", p.src, pr.ID, err)
	}
	return res.ToBoolean(), nil
}

// Func adapts p to model.Filters.Where. Evaluation errors are dropped
// here and remain visible through Errors.
func (p *Predicate) Func() func(model.Problem) bool {
	return func(pr model.Problem) bool {
		ok, _ := p.Match(pr)
		return ok
	}
}

// Errors returns how many evaluations have failed so far.
func (p *Predicate) Errors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors
}

func problemObject(p model.Problem) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"url":        p.URL,
		"difficulty": int(p.Difficulty),
		"solved": map[string]any{
			"value": p.Solved.Value,
			"date":  p.Solved.Date,
			"tries": p.Solved.Tries,
		},
		"ignored":      p.Ignored,
		"grandparent":  p.Grandparent,
		"parent_topic": p.ParentTopic,
	}
}
