// Package attributes compiles and evaluates computed-column
// expressions against trace events.
package attributes

import (
	"fmt"
	"log"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/sd37/myetrace/internal/config"
	"github.com/sd37/myetrace/internal/etw"
)

// Evaluator handles compilation and evaluation of computed-column
// expressions. Expressions see {name, pid, ts, fields} for each event.
type Evaluator struct {
	columns  []config.ComputedColumn
	programs []*vm.Program
}

// NewEvaluator pre-compiles all column expressions for efficiency.
func NewEvaluator(columns []config.ComputedColumn) (*Evaluator, error) {
	exprEnv := map[string]interface{}{
		"name":   "",
		"pid":    0,
		"ts":     int64(0),
		"fields": map[string]interface{}{},
	}

	programs := make([]*vm.Program, len(columns))
	for i, col := range columns {
		program, err := expr.Compile(col.Expression, expr.Env(exprEnv))
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression for column %q: %w", col.Name, err)
		}
		programs[i] = program
	}

	return &Evaluator{
		columns:  columns,
		programs: programs,
	}, nil
}

// Len returns the number of computed columns.
func (e *Evaluator) Len() int {
	return len(e.columns)
}

// Names returns the column names in definition order.
func (e *Evaluator) Names() []string {
	names := make([]string, len(e.columns))
	for i, col := range e.columns {
		names[i] = col.Name
	}
	return names
}

// Evaluate runs every column expression against the event and returns
// one cell per column. A failing expression yields an empty cell; the
// remaining columns still evaluate.
func (e *Evaluator) Evaluate(ev *etw.Event) []string {
	if len(e.columns) == 0 {
		return nil
	}

	fields := ev.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	env := map[string]interface{}{
		"name":   ev.Name,
		"pid":    int(ev.ProcessID),
		"ts":     int64(ev.Timestamp),
		"fields": fields,
	}

	cells := make([]string, len(e.columns))
	for i := range e.columns {
		output, err := expr.Run(e.programs[i], env)
		if err != nil {
			log.Printf("warning: failed to evaluate expression for column %q: %v", e.columns[i].Name, err)
			continue
		}
		cells[i] = fmt.Sprint(output)
	}
	return cells
}
