package dashboard

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(zap.NewNop())
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestRoutes(t *testing.T) {
	h := NewHandler(zap.NewNop())
	router := Routes(h)
	if router == nil {
		t.Fatal("Routes() returned nil")
	}
}

func TestDashboardVM(t *testing.T) {
	vm := DashboardVM{
		Palette:         []string{"#2563eb"},
		Classifications: []TagVM{{Value: "confirmado", Label: "Confirmado"}},
	}

	if len(vm.Palette) != 1 {
		t.Errorf("Palette length = %d, want 1", len(vm.Palette))
	}
	if vm.Classifications[0].Label != "Confirmado" {
		t.Errorf("Label = %q, want %q", vm.Classifications[0].Label, "Confirmado")
	}
}
