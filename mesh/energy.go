package mesh

import "math"

// BorderEnergy is the energy of every Border node. The largest energy an
// image cell can reach is sqrt(32), so a Border never wins a minimum path.
const BorderEnergy = float64(math.MaxInt32)

// MaxEnergy is the largest energy an image cell can reach.
var MaxEnergy = math.Sqrt(32)

// Brightness is the mean of the node's RGB channels scaled to [0,1].
// Border nodes are black.
func (g *Grid) Brightness(id NodeID) float64 {
	n := &g.nodes[id]
	if n.kind == Border {
		return 0
	}
	return float64(int(n.color.R)+int(n.color.G)+int(n.color.B)) / 3.0 / 255.0
}

// VerticalComponent is the node's contribution to the vertical gradient
// of the node below or above it: twice its own brightness plus that of its
// left and right neighbors.
func (g *Grid) VerticalComponent(id NodeID) float64 {
	n := &g.nodes[id]
	if n.kind == Border {
		return 0
	}
	return 2*g.Brightness(id) + g.Brightness(n.links[Left]) + g.Brightness(n.links[Right])
}

// HorizontalComponent mirrors VerticalComponent using the up and down
// neighbors.
func (g *Grid) HorizontalComponent(id NodeID) float64 {
	n := &g.nodes[id]
	if n.kind == Border {
		return 0
	}
	return 2*g.Brightness(id) + g.Brightness(n.links[Up]) + g.Brightness(n.links[Down])
}

// gradient computes the vertical and horizontal differences from the
// node's current neighbors.
func (g *Grid) gradient(id NodeID) (v, h float64) {
	l := g.nodes[id].links
	v = g.VerticalComponent(l[Up]) - g.VerticalComponent(l[Down])
	h = g.HorizontalComponent(l[Left]) - g.HorizontalComponent(l[Right])
	return v, h
}

// Energy is the gradient magnitude at id, derived from its live
// neighbors on every call.
func (g *Grid) Energy(id NodeID) float64 {
	if g.nodes[id].kind == Border {
		return BorderEnergy
	}
	v, h := g.gradient(id)
	return math.Sqrt(v*v + h*h)
}

// UpdateEnergies refreshes the cached gradient of id from its current
// neighbors. It must be called on a node whenever any link in its
// two-step neighborhood changes; the Editor does this for every mutation.
func (g *Grid) UpdateEnergies(id NodeID) {
	n := &g.nodes[id]
	if n.kind == Border {
		return
	}
	n.cachedV, n.cachedH = g.gradient(id)
}

// CachedEnergy returns the energy from the cached gradient.
func (g *Grid) CachedEnergy(id NodeID) float64 {
	n := &g.nodes[id]
	if n.kind == Border {
		return BorderEnergy
	}
	return math.Sqrt(n.cachedV*n.cachedV + n.cachedH*n.cachedH)
}

// StaleEnergies lists active image cells whose cached gradient differs
// from a fresh recomputation.
func (g *Grid) StaleEnergies() []NodeID {
	var stale []NodeID
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.kind != Colored || n.state != Active {
			continue
		}
		v, h := g.gradient(NodeID(i))
		if v != n.cachedV || h != n.cachedH {
			stale = append(stale, NodeID(i))
		}
	}
	return stale
}

// refreshAround updates the cache of every node in touched and of each of
// their current neighbors.
func (g *Grid) refreshAround(touched []NodeID) {
	seen := make(map[NodeID]struct{}, len(touched)*5)
	visit := func(id NodeID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		if g.nodes[id].state == Active {
			g.UpdateEnergies(id)
		}
	}
	for _, id := range touched {
		visit(id)
		if g.nodes[id].state != Active {
			continue
		}
		for _, nb := range g.nodes[id].links {
			visit(nb)
		}
	}
}
