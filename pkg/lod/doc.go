// Package lod filters graphs by detail level. Every node and edge carries
// an integer coarseness tier from 0 (coarsest) to 5 (finest); filtering at
// level L keeps elements at tier L or below, promotes hidden ancestors of
// visible nodes, and collapses edges whose endpoints are hidden onto the
// nearest visible ancestor.
//
// Filtering is side-effect-free: the input graph is never mutated, and the
// filter is safe to call repeatedly with different levels over the same
// graph. Malformed structure (dangling parents, missing edge endpoints) is
// tolerated, not rejected.
package lod
