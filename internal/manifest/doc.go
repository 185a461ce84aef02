// Package manifest extracts component declarations from Zig source files.
//
// It is not a Zig parser. Each line is split into tokens and matched against
// three fixed shapes: a public struct declaration naming the component, a
// "capacity = N" comment, and the signature of the component's update
// function. Anything outside those shapes is ignored, except a line that
// mentions "fn update(" without matching the signature grammar, which is a
// fatal error.
package manifest
