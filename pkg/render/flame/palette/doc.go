// Package palette decides the fill color of every flame graph frame.
//
// A [Palette] is either a basic color family (hot, mem, io, red, ...) or a
// language-aware scheme (java, js, perl, python, rust, wakeup) that first
// classifies a frame name by its annotations and naming conventions and then
// defers to a basic family.
//
// A [Resolver] picks the color for a name in one of two modes:
//
//   - hash mode: a pure function of the name, so a function keeps its color
//     wherever it appears in the tree and across renders;
//   - seeded mode: a pseudo-random generator with a fixed seed, consumed in
//     render order, which varies colors between neighbours while keeping
//     the output of identical renders identical.
//
// Either mode can be backed by a caller-owned [Map] that pins colors by
// name. Names already present in the map reuse their stored color; new names
// are colored by the active mode and added to the map, which the caller
// persists with [Map.SaveFile] after rendering.
//
// Differential graphs ignore the palette and use [Differential], which
// shades frames from white towards red (growth) or blue (reduction).
package palette
