// Package steering evaluates operator-configured routing overrides. A rule
// is an expr condition over the routing context; the highest-priority
// matching rule pins the request to a named backend before the selector's
// precedence chain runs. With no rules configured the engine is inert.
package steering

import (
	"fmt"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/config"
)

// RoutingContext is the request view exposed to rule conditions.
type RoutingContext struct {
	Tier       string
	MoodScore  int
	InputChars int
	HasInput   bool
	Priority   bool
	TimeOfDay  string
	Intent     string
}

// Engine holds the active rule set with precompiled conditions.
type Engine struct {
	mu    sync.RWMutex
	rules []compiledRule
}

type compiledRule struct {
	rule    config.SteeringRule
	program *vm.Program
}

// NewEngine compiles the given rules. Rules that fail to compile are skipped
// with a warning rather than blocking startup.
func NewEngine(rules []config.SteeringRule) *Engine {
	e := &Engine{}
	e.SetRules(rules)
	return e
}

// SetRules replaces the active rule set. Used by config hot reload.
func (e *Engine) SetRules(rules []config.SteeringRule) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		program, err := compileCondition(r.Condition)
		if err != nil {
			log.WithError(err).Warnf("skipping steering rule %q", r.Name)
			continue
		}
		compiled = append(compiled, compiledRule{rule: r, program: program})
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].rule.Priority > compiled[j].rule.Priority
	})

	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
}

func compileCondition(condition string) (*vm.Program, error) {
	if condition == "" {
		return nil, fmt.Errorf("empty condition")
	}
	return expr.Compile(condition, expr.Env(RoutingContext{}), expr.AsBool())
}

// Match returns the backend pinned by the highest-priority matching rule,
// or "" when no rule matches. Evaluation errors disqualify the rule only.
func (e *Engine) Match(ctx RoutingContext) (string, bool) {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for _, cr := range rules {
		out, err := expr.Run(cr.program, ctx)
		if err != nil {
			log.WithError(err).Warnf("steering rule %q failed to evaluate", cr.rule.Name)
			continue
		}
		if matched, ok := out.(bool); ok && matched {
			log.Debugf("steering rule %q pins backend %s", cr.rule.Name, cr.rule.Backend)
			return cr.rule.Backend, true
		}
	}
	return "", false
}
