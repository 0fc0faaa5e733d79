package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/synctrack/sylvia/internal/observability/metrics"
	"github.com/synctrack/sylvia/pkg/logging"
)

var (
	// ErrUnknownTool is returned when the runtime names a tool that does not exist
	ErrUnknownTool = errors.New("unknown tool")

	// ErrBadArguments is returned when tool arguments are missing or malformed
	ErrBadArguments = errors.New("invalid tool arguments")
)

// ToolDefinition describes one tool for the runtime's function-calling
// configuration.
type ToolDefinition struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

type toolHandler func(ctx context.Context, s *Session, args json.RawMessage) (string, error)

type tool struct {
	def     ToolDefinition
	handler toolHandler
}

// Registry holds the named operations the conversational runtime can
// invoke. Every handler returns a short string for the runtime to
// speak back to the visitor.
type Registry struct {
	tools   map[string]tool
	order   []string
	metrics *metrics.AgentMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewRegistry builds the tool registry.
func NewRegistry(m *metrics.AgentMetrics, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	r := &Registry{
		tools:   make(map[string]tool),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	r.registerAll()
	return r
}

func (r *Registry) register(def ToolDefinition, h toolHandler) {
	r.tools[def.Name] = tool{def: def, handler: h}
	r.order = append(r.order, def.Name)
}

func (r *Registry) registerAll() {
	r.register(ToolDefinition{
		Name:        "set_name",
		Description: "Record the visitor's full name.",
		Parameters:  map[string]string{"name": "The visitor's full name"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Name string `json:"name"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Name == "" {
			return "", fmt.Errorf("%w: name is required", ErrBadArguments)
		}
		return s.Tracker.SetName(args.Name), nil
	})

	r.register(ToolDefinition{
		Name:        "set_company",
		Description: "Record the visitor's company name.",
		Parameters:  map[string]string{"company": "The visitor's company"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Company string `json:"company"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Company == "" {
			return "", fmt.Errorf("%w: company is required", ErrBadArguments)
		}
		return s.Tracker.SetCompany(args.Company), nil
	})

	r.register(ToolDefinition{
		Name:        "set_intent",
		Description: "Record the visitor's main interest or pain point, e.g. \"lead generation automation\".",
		Parameters:  map[string]string{"intent": "Main interest or pain point"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Intent string `json:"intent"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Intent == "" {
			return "", fmt.Errorf("%w: intent is required", ErrBadArguments)
		}
		return s.Tracker.SetIntent(args.Intent), nil
	})

	r.register(ToolDefinition{
		Name:        "set_phone",
		Description: "Record the visitor's phone number.",
		Parameters:  map[string]string{"phone": "The visitor's phone number"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Phone string `json:"phone"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Phone == "" {
			return "", fmt.Errorf("%w: phone is required", ErrBadArguments)
		}
		return s.Tracker.SetPhone(args.Phone), nil
	})

	r.register(ToolDefinition{
		Name:        "set_email",
		Description: "Record the visitor's email address. The reply spells the address out; read it back and confirm with confirm_email.",
		Parameters:  map[string]string{"email": "The visitor's email address"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Email string `json:"email"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Email == "" {
			return "", fmt.Errorf("%w: email is required", ErrBadArguments)
		}
		return s.Tracker.SetEmail(args.Email), nil
	})

	r.register(ToolDefinition{
		Name:        "confirm_email",
		Description: "Record whether the spelled-back email was correct.",
		Parameters:  map[string]string{"is_correct": "true if the visitor confirmed the spelling"},
	}, func(_ context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			IsCorrect *bool `json:"is_correct"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.IsCorrect == nil {
			return "", fmt.Errorf("%w: is_correct is required", ErrBadArguments)
		}
		return s.Tracker.ConfirmEmail(*args.IsCorrect), nil
	})

	r.register(ToolDefinition{
		Name:        "submit_lead",
		Description: "Send the qualified lead to Synctrack's CRM.",
		Parameters: map[string]string{
			"name":    "Lead's full name",
			"company": "Lead's company name",
			"intent":  "Main interest or pain point",
			"email":   "Lead's email address (optional)",
			"phone":   "Lead's phone number (optional)",
			"summary": "Brief summary of the conversation and the lead's needs",
		},
	}, func(ctx context.Context, s *Session, raw json.RawMessage) (string, error) {
		var args struct {
			Name    string `json:"name"`
			Company string `json:"company"`
			Intent  string `json:"intent"`
			Email   string `json:"email"`
			Phone   string `json:"phone"`
			Summary string `json:"summary"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		if args.Name == "" || args.Company == "" || args.Intent == "" {
			return "", fmt.Errorf("%w: name, company, and intent are required", ErrBadArguments)
		}
		return s.Tracker.SubmitLead(ctx, args.Name, args.Company, args.Intent, args.Email, args.Phone, args.Summary), nil
	})

	r.register(ToolDefinition{
		Name:        "get_services",
		Description: "Get detailed information about Synctrack's services and offerings.",
	}, func(context.Context, *Session, json.RawMessage) (string, error) {
		return ServicesInfo(), nil
	})

	r.register(ToolDefinition{
		Name:        "get_current_time",
		Description: "Get the current date and time.",
	}, func(context.Context, *Session, json.RawMessage) (string, error) {
		return CurrentTime(r.now()), nil
	})
}

// Definitions lists the tools in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Dispatch invokes a tool by name with raw JSON arguments and returns
// the spoken reply.
func (r *Registry) Dispatch(ctx context.Context, s *Session, name string, args json.RawMessage) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		r.metrics.ObserveToolCall(name, "unknown")
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	reply, err := t.handler(ctx, s, args)
	if err != nil {
		r.metrics.ObserveToolCall(name, "error")
		r.logger.Warn("agent: tool call failed",
			"tool", name,
			"session_id", s.ID,
			"error", err,
		)
		return "", err
	}

	r.metrics.ObserveToolCall(name, "ok")
	r.logger.Info("agent: tool call handled", "tool", name, "session_id", s.ID)
	return reply, nil
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return nil
}
