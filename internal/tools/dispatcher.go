package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
	"github.com/ykres/ai-salon-assistant/policy"
)

// PolicyEvaluator decides whether a capability may run.
type PolicyEvaluator interface {
	Evaluate(ctx context.Context, capability string, args map[string]any) (decision, reason string, err error)
}

// Dispatcher resolves capability requests against a Registry. It never
// returns an error: every failure becomes an error payload so the run can
// still be advanced.
type Dispatcher struct {
	registry *Registry
	policy   PolicyEvaluator
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. policy may be nil to allow everything.
func NewDispatcher(registry *Registry, policy PolicyEvaluator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		policy:   policy,
		logger:   logging.Component(logger, "dispatcher"),
	}
}

// Dispatch executes one request and returns its canonical output.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.CapabilityRequest) domain.CapabilityOutput {
	return domain.CapabilityOutput{
		RequestID: req.ID,
		Output:    Canonicalize(d.Execute(ctx, req)),
	}
}

// Execute runs the request and returns the raw result value.
func (d *Dispatcher) Execute(ctx context.Context, req domain.CapabilityRequest) any {
	logger := d.logger.With("capability", req.Name, "tool_call_id", req.ID)

	handler, ok := d.registry.Lookup(req.Name)
	if !ok {
		logger.Warn("unknown capability requested")
		return map[string]any{"error": fmt.Sprintf("Unknown tool: %s", req.Name)}
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}

	if d.policy != nil {
		decision, reason, err := d.policy.Evaluate(ctx, req.Name, args)
		if err != nil {
			logger.Error("policy evaluation failed", "err", err)
			return errorPayload("policy evaluation failed: " + err.Error())
		}
		if decision != policy.DecisionAllow {
			logger.Warn("capability rejected by policy", "decision", decision, "reason", reason)
			return map[string]any{
				"status":  domain.CapabilityStatusError,
				"error":   decision,
				"message": reason,
			}
		}
	}

	logger.Info("capability call received", "args", args)
	result, err := d.invoke(ctx, handler, args)
	if err != nil {
		logger.Error("capability failed", "err", err)
		return errorPayload(err.Error())
	}

	if status, ok := resultStatus(result); ok && status != domain.CapabilityStatusOK {
		logger.Error("capability reported failure", "result", result)
	} else {
		logger.Info("capability succeeded", "result", result)
	}
	return result
}

func (d *Dispatcher) invoke(ctx context.Context, handler Handler, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("capability panicked: %v", r)
		}
	}()
	return handler(ctx, args)
}

func errorPayload(message string) map[string]any {
	return map[string]any{
		"status":  domain.CapabilityStatusError,
		"message": message,
	}
}

func resultStatus(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	status, ok := m["status"].(string)
	return status, ok
}
