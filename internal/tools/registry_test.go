package tools

import (
	"errors"
	"testing"

	"github.com/cfoia/backend/internal/errs"
)

func fixtureRegistry() *Registry {
	return NewRegistry([]Tool{
		{Name: "alpha", Description: "a"},
		{Name: "beta", Description: "b", Mutating: true},
	})
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := fixtureRegistry()

	_, err := registry.Get("gamma")
	var notFound *errs.ToolNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ToolNotFoundError, got %v", err)
	}
}

func TestRegistryIsMutating(t *testing.T) {
	registry := fixtureRegistry()

	if registry.IsMutating("alpha") {
		t.Fatal("alpha is read-only")
	}
	if !registry.IsMutating("beta") {
		t.Fatal("beta mutates")
	}
	if registry.IsMutating("gamma") {
		t.Fatal("unknown tool never mutates")
	}
}

func TestRegistryDefinitionsKeepOrder(t *testing.T) {
	defs := fixtureRegistry().Definitions()
	if len(defs) != 2 || defs[0].Name != "alpha" || defs[1].Name != "beta" {
		t.Fatalf("definitions order mismatch: %+v", defs)
	}
}

func TestDecodeArgsRejectsWrongTypes(t *testing.T) {
	type args struct {
		AmountCents int64 `json:"amountCents"`
	}
	if _, err := decodeArgs[args](map[string]any{"amountCents": "muitos"}); err == nil {
		t.Fatal("expected validation error")
	}
	decoded, err := decodeArgs[args](map[string]any{"amountCents": float64(4590)})
	if err != nil || decoded.AmountCents != 4590 {
		t.Fatalf("decode mismatch: %+v %v", decoded, err)
	}
}
