package mesh

import (
	"math"
	"testing"
)

func TestBrightness(t *testing.T) {
	g := buildFixture(t)
	pix := pixels(t, g)

	tests := []struct {
		k    int
		want float64
	}{
		{1, 0.530718954248366},
		{2, 0.4928104575163399},
		{3, 0.550326797385621},
	}
	for _, tt := range tests {
		if got := g.Brightness(pix[tt.k]); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Brightness(pix%d) = %v, want %v", tt.k, got, tt.want)
		}
	}
	if got := g.Brightness(g.Corner()); got != 0 {
		t.Errorf("border brightness = %v, want 0", got)
	}
}

func TestComponentsOnBorder(t *testing.T) {
	g := buildFixture(t)
	if v := g.VerticalComponent(g.Corner()); v != 0 {
		t.Errorf("border vertical component = %v, want 0", v)
	}
	if h := g.HorizontalComponent(g.Corner()); h != 0 {
		t.Errorf("border horizontal component = %v, want 0", h)
	}
}

func TestEnergyFixture(t *testing.T) {
	g := buildFixture(t)
	pix := pixels(t, g)

	want := [16]float64{
		1.861535, 1.640961, 1.639265, 1.945802,
		1.575606, 0.931946, 1.027065, 1.639244,
		1.091102, 0.836701, 0.775242, 1.163327,
		1.408401, 1.321232, 1.307161, 1.457263,
	}
	for k := 1; k <= 16; k++ {
		if got := g.Energy(pix[k]); math.Abs(got-want[k-1]) > 1e-6 {
			t.Errorf("Energy(pix%d) = %.6f, want %.6f", k, got, want[k-1])
		}
		if got := g.CachedEnergy(pix[k]); got != g.Energy(pix[k]) {
			t.Errorf("CachedEnergy(pix%d) = %v, Energy = %v", k, got, g.Energy(pix[k]))
		}
	}
}

func TestEnergyBounds(t *testing.T) {
	g := buildFixture(t)
	g.Walk(func(x, y int, id NodeID) {
		if e := g.Energy(id); e < 0 || e > MaxEnergy {
			t.Errorf("energy at (%d,%d) = %v outside [0, %v]", x, y, e, MaxEnergy)
		}
	})
	if e := g.Energy(g.Corner()); e != BorderEnergy {
		t.Errorf("border energy = %v, want %v", e, BorderEnergy)
	}
}

func TestStaleEnergies(t *testing.T) {
	g := buildFixture(t)
	if stale := g.StaleEnergies(); len(stale) != 0 {
		t.Fatalf("fresh grid has stale nodes %v", stale)
	}

	pix := pixels(t, g)
	g.nodes[pix[6]].color = gray(255)
	if stale := g.StaleEnergies(); len(stale) == 0 {
		t.Error("recoloring a node should leave its neighbors stale")
	}

	// Every node in the 3x3 block around pix6 reads its brightness.
	g.refreshAround([]NodeID{pix[1], pix[2], pix[3], pix[5], pix[6], pix[7], pix[9], pix[10], pix[11]})
	if stale := g.StaleEnergies(); len(stale) != 0 {
		t.Errorf("stale nodes %v after refresh", stale)
	}
}
