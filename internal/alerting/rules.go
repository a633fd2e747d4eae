// Package alerting evaluates user-defined expr rules against prediction
// results.
package alerting

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var ErrInvalidRule = errors.New("invalid alert rule")

// Env is the variable set visible to a rule expression.
type Env struct {
	Vehicle     string `expr:"vehicle"`
	Component   string `expr:"component"`
	Probability int    `expr:"probability"`
	Confidence  int    `expr:"confidence"`
	Severity    string `expr:"severity"`
	Days        int    `expr:"days"`
}

func NewEnv(vehicleID string, r models.PredictionResult) Env {
	return Env{
		Vehicle:     vehicleID,
		Component:   r.Component,
		Probability: r.Probability,
		Confidence:  r.Confidence,
		Severity:    string(r.Severity),
		Days:        r.EstimatedTimeToFailure,
	}
}

type Rule struct {
	Name       string
	Expression string
	Severity   models.EventSeverity
	// For is how long the condition must hold before the rule fires.
	For time.Duration
	// Cooldown is the minimum gap between two firings for the same
	// vehicle and component.
	Cooldown time.Duration
	program  *vm.Program
}

// Compile type-checks expression against Env. The expression must
// evaluate to a bool.
func Compile(name, expression, severity string) (*Rule, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRule)
	}

	sev := models.EventSeverity(severity)
	switch sev {
	case models.EventSeverityInfo, models.EventSeverityWarning, models.EventSeverityCritical:
	case "":
		sev = models.EventSeverityWarning
	default:
		return nil, fmt.Errorf("%w: rule %q has unknown severity %q", ErrInvalidRule, name, severity)
	}

	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidRule, name, err)
	}

	return &Rule{
		Name:       name,
		Expression: expression,
		Severity:   sev,
		program:    program,
	}, nil
}

func (r *Rule) Match(env Env) (bool, error) {
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, err
	}
	matched, _ := out.(bool)
	return matched, nil
}

// Evaluator holds a rule set that can be swapped while evaluations run.
type Evaluator struct {
	rules atomic.Pointer[[]*Rule]
	gate  *gate
}

func NewEvaluator(cfgs []config.AlertRuleConfig) (*Evaluator, error) {
	e := &Evaluator{gate: newGate(time.Now)}
	if err := e.Load(cfgs); err != nil {
		return nil, err
	}
	return e, nil
}

// Load compiles cfgs and replaces the active rules. On error the previous
// rules stay active.
func (e *Evaluator) Load(cfgs []config.AlertRuleConfig) error {
	rules := make([]*Rule, 0, len(cfgs))
	seen := make(map[string]bool, len(cfgs))
	for _, c := range cfgs {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, c.Name)
		}
		seen[c.Name] = true

		rule, err := Compile(c.Name, c.Expression, c.Severity)
		if err != nil {
			return err
		}
		if c.For < 0 || c.Cooldown < 0 {
			return fmt.Errorf("%w: rule %q has a negative for or cooldown", ErrInvalidRule, c.Name)
		}
		rule.For = c.For
		rule.Cooldown = c.Cooldown
		rules = append(rules, rule)
	}
	e.rules.Store(&rules)
	return nil
}

func (e *Evaluator) Rules() []*Rule {
	rules := e.rules.Load()
	if rules == nil {
		return nil
	}
	return append([]*Rule(nil), (*rules)...)
}

// Evaluate returns one alert per (rule, result) match, in rule order then
// result order. A match is held back until it has persisted for the rule's
// For duration and while the rule's Cooldown since the last firing for the
// same vehicle and component has not elapsed.
func (e *Evaluator) Evaluate(vehicleID string, results []models.PredictionResult) []models.Alert {
	var alerts []models.Alert
	for _, rule := range e.Rules() {
		for _, r := range results {
			key := gateKey{vehicle: vehicleID, rule: rule.Name, component: r.Component}
			matched, err := rule.Match(NewEnv(vehicleID, r))
			if err != nil {
				logger.WithFields(map[string]interface{}{
					"rule":       rule.Name,
					"vehicle_id": vehicleID,
				}).Warnf("Alert rule evaluation failed: %v", err)
				continue
			}
			if !e.gate.admit(key, matched, rule.For, rule.Cooldown) {
				continue
			}
			alerts = append(alerts, models.Alert{
				Rule:       rule.Name,
				VehicleID:  vehicleID,
				Severity:   rule.Severity,
				Prediction: r,
			})
		}
	}
	return alerts
}

// Forget drops the pending and cooldown state kept for a vehicle.
func (e *Evaluator) Forget(vehicleID string) {
	e.gate.forget(vehicleID)
}
