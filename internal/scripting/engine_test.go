package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/physics"
	"github.com/quarry2d/quarry/internal/scene"
)

func testScene() *scene.Scene {
	cfg := physics.DefaultConfig()
	cfg.GravityY = 0
	return scene.New(cfg, zap.NewNop())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hooks.lua"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNewEngineMissingDir(t *testing.T) {
	sc := testScene()
	eng, err := NewEngine(filepath.Join(t.TempDir(), "absent"), sc, zap.NewNop())
	if err != nil {
		t.Fatalf("missing scripts dir must not fail: %v", err)
	}
	defer eng.Close()

	// No hooks loaded; the callback is a no-op.
	eng.CollisionCallback()(physics.CollisionEvent{}, physics.ContactBegin)
}

func TestNewEngineBadScript(t *testing.T) {
	sc := testScene()
	dir := writeScript(t, "function broken(")
	if _, err := NewEngine(dir, sc, zap.NewNop()); err == nil {
		t.Fatal("syntax error accepted")
	}
}

func TestHookReceivesEventFields(t *testing.T) {
	sc := testScene()
	dir := writeScript(t, `
seen = nil
function on_contact_begin(ev)
    seen = ev.self .. "/" .. ev.other .. "/" .. ev.normal_x .. "/" .. tostring(ev.trigger)
end
`)
	eng, err := NewEngine(dir, sc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	a := sc.CreateEntity()
	b := sc.CreateEntity()
	eng.CollisionCallback()(physics.CollisionEvent{
		Self: a, Other: b, NormalX: 1, Trigger: true,
	}, physics.ContactBegin)

	got := eng.vm.GetGlobal("seen").String()
	want := "0/1/1/true"
	if got != want {
		t.Fatalf("seen = %q, want %q", got, want)
	}
}

func TestDestroyAndIsAliveBridge(t *testing.T) {
	sc := testScene()
	dir := writeScript(t, `
function on_contact_begin(ev)
    if quarry.is_alive(ev.other) then
        quarry.destroy(ev.other)
    end
end
`)
	eng, err := NewEngine(dir, sc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	a := sc.CreateEntity()
	b := sc.CreateEntity()
	eng.CollisionCallback()(physics.CollisionEvent{Self: a, Other: b}, physics.ContactBegin)

	if sc.Alive(b) {
		t.Fatal("quarry.destroy did not destroy the entity")
	}
	if !sc.Alive(a) {
		t.Fatal("wrong entity destroyed")
	}

	// Second delivery against the now-dead entity: is_alive gates the
	// destroy, nothing blows up.
	eng.CollisionCallback()(physics.CollisionEvent{Self: a, Other: b}, physics.ContactBegin)
}

func TestEndHookDispatch(t *testing.T) {
	sc := testScene()
	dir := writeScript(t, `
ends = 0
function on_contact_end(ev)
    ends = ends + 1
end
`)
	eng, err := NewEngine(dir, sc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	// Begin has no hook here; only the end hook counts.
	eng.CollisionCallback()(physics.CollisionEvent{}, physics.ContactBegin)
	eng.CollisionCallback()(physics.CollisionEvent{}, physics.ContactEnd)
	eng.CollisionCallback()(physics.CollisionEvent{}, physics.ContactEnd)

	if got := eng.vm.GetGlobal("ends").String(); got != "2" {
		t.Fatalf("ends = %s, want 2", got)
	}
}

func TestHookRuntimeErrorContained(t *testing.T) {
	sc := testScene()
	dir := writeScript(t, `
function on_contact_begin(ev)
    error("hook failure")
end
`)
	eng, err := NewEngine(dir, sc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	// Protected call: the error is logged and swallowed.
	eng.CollisionCallback()(physics.CollisionEvent{}, physics.ContactBegin)
}
