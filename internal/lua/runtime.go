// Package lua runs user scripts against the bridge.
//
// A script sees two preloaded modules, hue and log. One Runtime owns one Lua state
// and must not be shared between goroutines.
package lua

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/hue"
	"github.com/dokzlo13/huectl/internal/lua/modules"
)

// Runtime manages a Lua VM bound to one bridge transport
type Runtime struct {
	L         *lua.LState
	transport hue.Transport
}

// NewRuntime creates a new Lua runtime
func NewRuntime(t hue.Transport) *Runtime {
	r := &Runtime{
		L:         lua.NewState(),
		transport: t,
	}
	r.registerModules()
	return r
}

// Close closes the Lua state
func (r *Runtime) Close() {
	r.L.Close()
}

// registerModules registers all Lua modules
func (r *Runtime) registerModules() {
	r.L.PreloadModule("log", modules.NewLogModule().Loader)
	r.L.PreloadModule("hue", modules.NewHueModule(r.transport).Loader)
}

// RunFile executes a script. Cancelling ctx stops the script at its next instruction.
func (r *Runtime) RunFile(ctx context.Context, path string) (err error) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Str("path", path).Msg("Lua script panicked")
			err = fmt.Errorf("lua script %s panicked: %v", path, rec)
		}
	}()

	// Modules reach the context through L.Context()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	logger.Info().Str("path", path).Msg("Running Lua script")

	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	logger.Info().Str("path", path).Msg("Lua script finished")
	return nil
}

// RunString executes an inline chunk
func (r *Runtime) RunString(ctx context.Context, source string) error {
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	if err := r.L.DoString(source); err != nil {
		return fmt.Errorf("failed to execute Lua chunk: %w", err)
	}
	return nil
}
