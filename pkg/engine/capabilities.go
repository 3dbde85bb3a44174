package engine

import (
	"context"
	"log/slog"
	"sync"
)

// Capabilities are the effect-related operations a component may call
// while rendering. They are injected per render, so two renders never
// share them.
type Capabilities struct {
	UseEffect           func(effect func() func(), deps ...any)
	UseLayoutEffect     func(effect func() func(), deps ...any)
	UseImperativeHandle func(ref any, create func() any, deps ...any)
	UseCallback         func(callback any, deps ...any) any
}

const layoutEffectWarning = "UseLayoutEffect does nothing on the server: its effect cannot be " +
	"encoded into the rendered markup, so the initial UI will not match the hydrated UI. " +
	"Use it only in components that render exclusively on the client."

// ServerCapabilities returns the server-side set: effects and imperative
// handles never run, callbacks are returned unchanged. In dev mode the
// first UseLayoutEffect call of a render logs a warning.
func ServerCapabilities(logger *slog.Logger, dev bool) Capabilities {
	if logger == nil {
		logger = slog.Default().With("component", "engine")
	}
	var once sync.Once
	return Capabilities{
		UseEffect: func(func() func(), ...any) {},
		UseLayoutEffect: func(func() func(), ...any) {
			if dev {
				once.Do(func() { logger.Warn(layoutEffectWarning) })
			}
		},
		UseImperativeHandle: func(any, func() any, ...any) {},
		UseCallback:         func(cb any, _ ...any) any { return cb },
	}
}

// merge fills nil slots of c from def.
func (c Capabilities) merge(def Capabilities) Capabilities {
	if c.UseEffect == nil {
		c.UseEffect = def.UseEffect
	}
	if c.UseLayoutEffect == nil {
		c.UseLayoutEffect = def.UseLayoutEffect
	}
	if c.UseImperativeHandle == nil {
		c.UseImperativeHandle = def.UseImperativeHandle
	}
	if c.UseCallback == nil {
		c.UseCallback = def.UseCallback
	}
	return c
}

type capabilitiesKey struct{}

func withCapabilities(ctx context.Context, c Capabilities) context.Context {
	return context.WithValue(ctx, capabilitiesKey{}, c)
}

func capabilitiesFrom(ctx context.Context) Capabilities {
	if c, ok := ctx.Value(capabilitiesKey{}).(Capabilities); ok {
		return c
	}
	return ServerCapabilities(nil, false)
}

// UseEffect schedules effect through the render's capabilities.
func UseEffect(ctx context.Context, effect func() func(), deps ...any) {
	capabilitiesFrom(ctx).UseEffect(effect, deps...)
}

// UseLayoutEffect schedules a layout effect through the render's
// capabilities.
func UseLayoutEffect(ctx context.Context, effect func() func(), deps ...any) {
	capabilitiesFrom(ctx).UseLayoutEffect(effect, deps...)
}

// UseImperativeHandle exposes an imperative handle on ref.
func UseImperativeHandle(ctx context.Context, ref any, create func() any, deps ...any) {
	capabilitiesFrom(ctx).UseImperativeHandle(ref, create, deps...)
}

// UseCallback returns the memoized form of fn.
func UseCallback[F any](ctx context.Context, fn F, deps ...any) F {
	if out, ok := capabilitiesFrom(ctx).UseCallback(fn, deps...).(F); ok {
		return out
	}
	return fn
}
