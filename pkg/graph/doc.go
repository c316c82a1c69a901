// Package graph defines the scene tree produced by the staging generators.
// A scene is a tree of group, transform, part and primitive nodes. Builders
// only ever create new trees; renderers (tessellation, plan view, JSON
// export) walk them read-only and never mutate a node.
//
// Units are metres. The world is Y-up: X runs across the stage front,
// Z runs from the back wall (negative) toward the audience (positive).
package graph
