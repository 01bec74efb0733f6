package mesh

import (
	"image/color"
	"testing"
)

// fixture4x4 is the 4x4 reference image, row-major.
var fixture4x4 = []color.RGBA{
	{98, 132, 176, 255}, {123, 231, 23, 255}, {12, 155, 254, 255}, {5, 197, 201, 255},
	{2, 90, 222, 255}, {2, 90, 222, 255}, {2, 90, 221, 255}, {2, 90, 221, 255},
	{139, 32, 215, 255}, {1, 93, 82, 255}, {76, 47, 39, 255}, {127, 118, 121, 255},
	{125, 132, 113, 255}, {94, 33, 41, 255}, {179, 40, 33, 255}, {180, 76, 67, 255},
}

func buildFromSlice(t *testing.T, w, h int, px []color.RGBA) *Grid {
	t.Helper()
	g, err := Build(w, h, func(x, y int) color.Color { return px[y*w+x] })
	if err != nil {
		t.Fatalf("Build(%d, %d): %v", w, h, err)
	}
	return g
}

func buildFixture(t *testing.T) *Grid {
	return buildFromSlice(t, 4, 4, fixture4x4)
}

// pixels returns the node at every live position, row-major, numbered from
// 1 so pix[k] matches the k-th pixel of the reference image.
func pixels(t *testing.T, g *Grid) []NodeID {
	t.Helper()
	ids := []NodeID{None}
	g.Walk(func(_, _ int, id NodeID) { ids = append(ids, id) })
	return ids
}

func gray(v uint8) color.RGBA { return color.RGBA{v, v, v, 255} }

func mustWellFormed(t *testing.T, g *Grid) {
	t.Helper()
	if err := g.Validate(); err != nil {
		t.Fatalf("mesh not well-formed: %v", err)
	}
	if stale := g.StaleEnergies(); len(stale) > 0 {
		t.Fatalf("stale cached energy at nodes %v", stale)
	}
}

// snapshot captures everything a removal and its undo must round-trip.
type snapshot struct {
	width, height int
	links         []Links
	states        []State
	display       []color.RGBA
	energy        []float64
}

func takeSnapshot(g *Grid) snapshot {
	s := snapshot{width: g.width, height: g.height}
	for i := range g.nodes {
		n := &g.nodes[i]
		s.links = append(s.links, n.links)
		s.states = append(s.states, n.state)
		s.display = append(s.display, n.display)
		s.energy = append(s.energy, g.CachedEnergy(NodeID(i)))
	}
	return s
}

func compareSnapshots(t *testing.T, want, got snapshot) {
	t.Helper()
	if want.width != got.width || want.height != got.height {
		t.Fatalf("size %dx%d, want %dx%d", got.width, got.height, want.width, want.height)
	}
	for i := range want.links {
		if want.links[i] != got.links[i] {
			t.Errorf("node %d links %v, want %v", i, got.links[i], want.links[i])
		}
		if want.states[i] != got.states[i] {
			t.Errorf("node %d state %v, want %v", i, got.states[i], want.states[i])
		}
		if want.display[i] != got.display[i] {
			t.Errorf("node %d display %v, want %v", i, got.display[i], want.display[i])
		}
		if want.energy[i] != got.energy[i] {
			t.Errorf("node %d energy %v, want %v", i, got.energy[i], want.energy[i])
		}
	}
}
