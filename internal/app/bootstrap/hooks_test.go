package bootstrap_test

import (
	"context"
	"testing"

	"github.com/dalemusser/docuvault/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

// The lifecycle runner takes a context alongside the hooks. Pinning the
// call shape here makes a framework signature change a compile error
// instead of a broken binary.
var _ func(context.Context, app.Hooks[bootstrap.AppConfig, bootstrap.DBDeps]) error = app.Run[bootstrap.AppConfig, bootstrap.DBDeps]

func TestHooks_RequiredFunctionsSet(t *testing.T) {
	if bootstrap.Hooks.Name != "docuvault" {
		t.Errorf("Hooks.Name = %q, want %q", bootstrap.Hooks.Name, "docuvault")
	}
	if bootstrap.Hooks.LoadConfig == nil {
		t.Error("Hooks.LoadConfig is nil")
	}
	if bootstrap.Hooks.ConnectDB == nil {
		t.Error("Hooks.ConnectDB is nil")
	}
	if bootstrap.Hooks.BuildHandler == nil {
		t.Error("Hooks.BuildHandler is nil")
	}
	if bootstrap.Hooks.Shutdown == nil {
		t.Error("Hooks.Shutdown is nil")
	}
}
