// Package engine is a small diffing engine that renders vdom trees through
// a host.HostConfig.
//
// A render runs in passes. Each pass calls components, collects the
// suspensions raised by cache reads, and commits the host output by
// diffing it against the previous commit. While a boundary is suspended
// its fallback is committed and the engine waits for the pending loads,
// bounded by the boundary's MaxDuration and the render's maximum wait.
// Render returns once a pass commits with nothing left to wait for.
//
// Components reach render-scoped services through their context: cache
// reads via cache.Resource.Use, effects via UseEffect, UseLayoutEffect,
// UseImperativeHandle and UseCallback.
package engine
