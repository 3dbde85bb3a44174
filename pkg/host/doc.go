// Package host defines the contract between a diffing engine and the markup
// tree, and provides Adapter, its implementation for server rendering.
//
// The engine creates instances, applies props, and moves children only
// through HostConfig. Timing comes from the embedded Scheduler, which maps
// now/schedule/cancel/yield onto the time package.
package host
