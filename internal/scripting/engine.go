// Package scripting hosts the Lua layer that consumes collision events and
// issues entity operations back into the scene. The physics core sees it only
// as an opaque callback value.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/core/ecs"
	"github.com/quarry2d/quarry/internal/physics"
	"github.com/quarry2d/quarry/internal/scene"
)

const (
	beginHook = "on_contact_begin"
	endHook   = "on_contact_end"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (the
// simulation loop); destruction requested from inside a hook goes through the
// scene's guard and is therefore deferred automatically.
type Engine struct {
	vm    *lua.LState
	scene *scene.Scene
	log   *zap.Logger
}

// NewEngine creates a Lua engine bound to a scene and loads every .lua file
// in scriptsDir. A missing directory is not an error; the engine simply has
// no hooks.
func NewEngine(scriptsDir string, sc *scene.Scene, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	e := &Engine{vm: vm, scene: sc, log: log}
	e.registerAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// CollisionCallback returns the callback to register with the scene. Events
// are forwarded to the on_contact_begin / on_contact_end Lua globals when
// they exist.
func (e *Engine) CollisionCallback() physics.CollisionCallback {
	return e.onContact
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerAPI installs the quarry table: destroy, is_alive, and log.
//
// Entity handles cross the boundary as Lua numbers (float64), which hold
// integers exactly up to 2^53: a full 32-bit slot index plus 21 bits of
// generation. Beyond that the round-trip truncates and destroy/is_alive see
// a stale handle, which the generation check rejects.
func (e *Engine) registerAPI() {
	api := e.vm.NewTable()
	e.vm.SetGlobal("quarry", api)

	e.vm.SetField(api, "destroy", e.vm.NewFunction(func(L *lua.LState) int {
		id := L.CheckNumber(1)
		e.scene.DestroyEntity(ecs.Entity(uint64(id)))
		return 0
	}))
	e.vm.SetField(api, "is_alive", e.vm.NewFunction(func(L *lua.LState) int {
		id := L.CheckNumber(1)
		L.Push(lua.LBool(e.scene.Alive(ecs.Entity(uint64(id)))))
		return 1
	}))
	e.vm.SetField(api, "log", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("message", L.CheckString(1)))
		return 0
	}))
}

func (e *Engine) onContact(ev physics.CollisionEvent, kind physics.EventType) {
	hook := beginHook
	if kind == physics.ContactEnd {
		hook = endHook
	}
	fn := e.vm.GetGlobal(hook)
	if fn == lua.LNil {
		return
	}

	tbl := e.vm.NewTable()
	e.vm.SetField(tbl, "self", lua.LNumber(ev.Self))
	e.vm.SetField(tbl, "other", lua.LNumber(ev.Other))
	e.vm.SetField(tbl, "normal_x", lua.LNumber(ev.NormalX))
	e.vm.SetField(tbl, "normal_y", lua.LNumber(ev.NormalY))
	e.vm.SetField(tbl, "point_x", lua.LNumber(ev.PointX))
	e.vm.SetField(tbl, "point_y", lua.LNumber(ev.PointY))
	e.vm.SetField(tbl, "self_fixture", lua.LNumber(ev.SelfFixture))
	e.vm.SetField(tbl, "other_fixture", lua.LNumber(ev.OtherFixture))
	e.vm.SetField(tbl, "trigger", lua.LBool(ev.Trigger))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, tbl); err != nil {
		e.log.Error("lua contact hook failed", zap.String("hook", hook), zap.Error(err))
	}
}
