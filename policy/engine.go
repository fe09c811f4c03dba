// Package policy gates capability execution with an OPA policy.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions a policy may return.
const (
	DecisionAllow           = "allow"
	DecisionBlock           = "block"
	DecisionRequireApproval = "require_approval"
)

// Engine is the OPA policy engine.
type Engine struct {
	query    rego.PreparedEvalQuery
	disabled []string
}

// NewEngine creates a new policy engine with the given policy content.
// Capabilities listed in disabled are exposed to the policy as input.disabled.
func NewEngine(ctx context.Context, policyContent string, disabled []string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.capability_policy.decision"),
		rego.Module("capability_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query, disabled: append([]string(nil), disabled...)}, nil
}

// LoadEngine reads the policy from path, or uses DefaultPolicy when path is empty.
func LoadEngine(ctx context.Context, path string, disabled []string) (*Engine, error) {
	content := DefaultPolicy
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		content = string(data)
	}
	return NewEngine(ctx, content, disabled)
}

// Evaluate checks whether a capability may run.
// Returns: decision (allow, require_approval, block), reason, error.
func (e *Engine) Evaluate(ctx context.Context, capability string, args map[string]any) (string, string, error) {
	if args == nil {
		args = map[string]any{}
	}
	disabled := make([]interface{}, 0, len(e.disabled))
	for _, name := range e.disabled {
		disabled = append(disabled, name)
	}
	input := map[string]interface{}{
		"capability": capability,
		"args":       args,
		"disabled":   disabled,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "default", nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return val, "", nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		if decision == "" {
			decision = DecisionAllow
		}
		return decision, reason, nil
	}

	return DecisionAllow, "unexpected return type", nil
}

// DefaultPolicy allows every capability except the ones disabled by config.
const DefaultPolicy = `
package capability_policy

default decision = {"decision": "allow", "reason": "default"}

decision = {"decision": "block", "reason": "capability disabled by operator"} {
	input.disabled[_] == input.capability
}
`
