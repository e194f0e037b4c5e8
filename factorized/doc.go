// Package factorized implements the Factorized posterior representation
// of spec §4.4 and its sequential-update kernel (spec §4.5): a sparse,
// per-edge EP message store over the nonzeros of a bipartite coupling
// factor, with companion row/column CSR-style layouts carrying
// back-pointers so a single edge write stays coherent from either view,
// and an optional selective-damping top-K tracker per variable.
package factorized
