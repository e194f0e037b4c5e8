// SPDX-License-Identifier: MIT
package potential

import "fmt"

// Manager owns an ordered sequence of Blocks whose sizes sum to m, the
// coupling factor's row count (spec §3). Its flattened "internal
// representation" (PotIDs, NumPot, ParVec/ParShared, AnnHandles, UpdInd,
// bivariate-precision bookkeeping) is rebuilt lazily whenever a block is
// mutated, via a version counter (spec §9 "dirty-flag caching") rather
// than fine-grained per-field tracking.
type Manager struct {
	registry Registry
	blocks   []Block
	offsets  []int // len(blocks)+1, prefix sums of block sizes; offsets[len(blocks)] == m

	version      int
	builtVersion int
	built        internalRep
}

// internalRep is the materialized flat layout described in spec §4.2.
type internalRep struct {
	potIDs     []int
	numPot     []int
	parVec     []float64
	parShared  []int
	paramCount []int // per block, number of Param entries (for slicing parVec/parShared back)
	annHandles []int64

	updInd []int // flat site indices of all non-Gaussian positions

	numBVPrec int
	numTau    int
	tauInd    []int // flat site index -> tau variable, valid for the bvp suffix only
}

// NewManager constructs a Manager over blocks, resolved against registry.
// Bivariate-precision blocks, if any, must be contiguous and occupy the
// suffix of blocks (spec §3 invariant); violating that fails construction
// with ErrBVPNotContiguous.
func NewManager(registry Registry, blocks []Block) (*Manager, error) {
	if registry == nil || len(blocks) == 0 {
		return nil, ErrInvalidArgument
	}
	offsets := make([]int, len(blocks)+1)
	seenBVP := false
	for i, b := range blocks {
		if err := b.validate(); err != nil {
			return nil, err
		}
		id := registry.PotID(b.Name)
		if id < 0 {
			return nil, fmt.Errorf("potential: block %d (%q): %w", i, b.Name, ErrUnknownPotential)
		}
		isBVP := registry.ArgGroup(id) == BivariatePrecision
		if isBVP {
			seenBVP = true
		} else if seenBVP {
			return nil, ErrBVPNotContiguous
		}
		offsets[i+1] = offsets[i] + b.Size
	}
	m := &Manager{registry: registry, blocks: blocks, offsets: offsets, version: 1}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// Size returns m, the total number of potential sites.
func (m *Manager) Size() int { return m.offsets[len(m.offsets)-1] }

// Blocks returns the manager's ordered blocks (read-only view).
func (m *Manager) Blocks() []Block { return m.blocks }

// SetParams replaces block i's parameter tuple and marks the manager
// dirty; the flattened layout is rebuilt on next access.
func (m *Manager) SetParams(i int, params []Param) error {
	if i < 0 || i >= len(m.blocks) {
		return ErrInvalidArgument
	}
	nb := m.blocks[i]
	nb.Params = params
	if err := nb.validate(); err != nil {
		return err
	}
	m.blocks[i] = nb
	m.version++
	return nil
}

func (m *Manager) rebuild() error {
	if m.builtVersion == m.version {
		return nil
	}
	var rep internalRep
	rep.paramCount = make([]int, len(m.blocks))
	for i, b := range m.blocks {
		id := m.registry.PotID(b.Name)
		if id < 0 {
			return fmt.Errorf("potential: block %d (%q): %w", i, b.Name, ErrUnknownPotential)
		}
		rep.potIDs = append(rep.potIDs, id)
		rep.numPot = append(rep.numPot, b.Size)
		rep.annHandles = append(rep.annHandles, b.AnnHandle)
		rep.paramCount[i] = len(b.Params)
		for _, p := range b.Params {
			rep.parVec = append(rep.parVec, p.Values...)
			shared := 0
			if p.Shared {
				shared = 1
			}
			for range p.Values {
				rep.parShared = append(rep.parShared, shared)
			}
		}

		isBVP := m.registry.ArgGroup(id) == BivariatePrecision
		if isBVP {
			rep.numBVPrec += b.Size
			for _, t := range b.TauIndex {
				rep.tauInd = append(rep.tauInd, t)
			}
		} else {
			lo, hi := m.offsets[i], m.offsets[i+1]
			for j := lo; j < hi; j++ {
				rep.updInd = append(rep.updInd, j)
			}
		}
	}
	// Non-Gaussian filter: spec's "upd_ind" is the set of non-Gaussian
	// positions used by the sweep drivers. Gaussian blocks are a fixed
	// point of EP (an ADF-initialized Gaussian site already equals its
	// potential, so a further update leaves it unchanged), so they are
	// excluded here by name; bivariate-precision blocks were already
	// excluded above by construction since their updind is computed from
	// tau arithmetic rather than this list.
	filtered := rep.updInd[:0]
	for _, j := range rep.updInd {
		if m.blockNameAt(j) == gaussianBlockName {
			continue
		}
		filtered = append(filtered, j)
	}
	rep.updInd = filtered

	tauCount := map[int]struct{}{}
	for _, t := range rep.tauInd {
		tauCount[t] = struct{}{}
	}
	rep.numTau = len(tauCount)

	m.built = rep
	m.builtVersion = m.version
	return nil
}

// gaussianBlockName is the conventional name the reference registry (and
// any compliant external registry) uses for the Gaussian potential, the
// one family that is already its own EP fixed point and therefore never
// needs an sweep update.
const gaussianBlockName = "gaussian"

// blockNameAt returns the block name owning flat site index j.
func (m *Manager) blockNameAt(j int) string {
	i := m.blockIndexAt(j)
	return m.blocks[i].Name
}

// BlockNameAt returns the name of the block owning flat site index j, for
// callers (sweep drivers) that restrict updates by potential-type name.
func (m *Manager) BlockNameAt(j int) (string, error) {
	if j < 0 || j >= m.Size() {
		return "", ErrInvalidArgument
	}
	return m.blockNameAt(j), nil
}

// SiteInfo resolves flat site index j to the registry id, block size k,
// j's 0-based offset within that block, and the flattened per-block
// parameter tuple its owning Block carries: the per-site inputs the EP
// sweep drivers assemble into a potential.SingleRequest (spec §4.2/§6).
// parVec/parShared are freshly built per call (not shared with the
// manager's internal cache), since callers may mutate neither.
func (m *Manager) SiteInfo(j int) (potID, blockSize, localIndex int, parVec []float64, parShared []int, annHandle int64, err error) {
	if j < 0 || j >= m.Size() {
		return 0, 0, 0, nil, nil, 0, ErrInvalidArgument
	}
	i := m.blockIndexAt(j)
	b := m.blocks[i]
	id := m.registry.PotID(b.Name)
	if id < 0 {
		return 0, 0, 0, nil, nil, 0, fmt.Errorf("potential: block %d (%q): %w", i, b.Name, ErrUnknownPotential)
	}
	for _, p := range b.Params {
		parVec = append(parVec, p.Values...)
		shared := 0
		if p.Shared {
			shared = 1
		}
		for range p.Values {
			parShared = append(parShared, shared)
		}
	}
	return id, b.Size, j - m.offsets[i], parVec, parShared, b.AnnHandle, nil
}

func (m *Manager) blockIndexAt(j int) int {
	lo, hi := 0, len(m.offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.offsets[mid] <= j {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// PotIDs, NumPot, ParVec, ParShared, AnnHandles, UpdInd, NumBVPrec,
// NumTau, and TauInd are the flattened accessors of spec §4.2's
// build_internal(), rebuilt lazily on access.

func (m *Manager) PotIDs() []int      { m.rebuild(); return m.built.potIDs }
func (m *Manager) NumPot() []int      { m.rebuild(); return m.built.numPot }
func (m *Manager) ParVec() []float64  { m.rebuild(); return m.built.parVec }
func (m *Manager) ParShared() []int   { m.rebuild(); return m.built.parShared }
func (m *Manager) AnnHandles() []int64 { m.rebuild(); return m.built.annHandles }
func (m *Manager) UpdInd() []int      { m.rebuild(); return m.built.updInd }
func (m *Manager) NumBVPrec() int     { m.rebuild(); return m.built.numBVPrec }
func (m *Manager) NumTau() int        { m.rebuild(); return m.built.numTau }
func (m *Manager) TauInd() []int      { m.rebuild(); return m.built.tauInd }

// Filterpots returns the flat site indices whose owning block's name is in
// names (spec §4.2 filterpots).
func (m *Manager) Filterpots(names ...string) []int {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	var out []int
	for i, b := range m.blocks {
		if _, ok := set[b.Name]; !ok {
			continue
		}
		lo, hi := m.offsets[i], m.offsets[i+1]
		for j := lo; j < hi; j++ {
			out = append(out, j)
		}
	}
	return out
}

// Validate runs the registry's IsValid check over the current flattened
// parameters, returning ErrInvalidPotentialParameters with the registry's
// diagnostic message verbatim if it fails (spec §4.2/§7).
func (m *Manager) Validate() error {
	m.rebuild()
	if msg := m.registry.IsValid(m.built.potIDs, m.built.numPot, m.built.parVec, m.built.parShared, m.built.annHandles); msg != "" {
		return fmt.Errorf("%s: %w", msg, ErrInvalidPotentialParameters)
	}
	return nil
}
