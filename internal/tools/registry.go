package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cfoia/backend/internal/dto"
	"github.com/cfoia/backend/internal/errs"
)

// Tool is one named operation the assistant can run. The catalog is the
// assistant's API surface: the executor dispatches on it and the LLM
// function-calling definitions are derived from it.
type Tool struct {
	Name        string
	Description string
	Parameters  *dto.Schema
	Mutating    bool
	Run         func(ctx context.Context, orgID string, input map[string]any) (any, error)
}

// Registry is an immutable name→tool table built once at startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry(tools []Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, tool := range tools {
		r.tools[tool.Name] = tool
		r.order = append(r.order, tool.Name)
	}
	return r
}

func (r *Registry) Get(name string) (Tool, error) {
	tool, ok := r.tools[name]
	if !ok {
		return Tool{}, errs.NewToolNotFoundError(fmt.Sprintf("tool não encontrada: %s", name))
	}
	return tool, nil
}

func (r *Registry) IsMutating(name string) bool {
	tool, ok := r.tools[name]
	return ok && tool.Mutating
}

// Definitions returns the catalog in function-calling form, in registration
// order.
func (r *Registry) Definitions() []dto.ToolDefinition {
	defs := make([]dto.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, dto.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return defs
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return out, errs.NewValidationError(err.Error())
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errs.NewValidationError(fmt.Sprintf("input inválido: %s", err.Error()))
	}
	return out, nil
}
