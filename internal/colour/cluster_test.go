package colour

import (
	"testing"
)

func TestClusterSamples_MergesNearColours(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{200, 50, 50}, Count: 10},
		{Colour: RGB{205, 55, 55}, Count: 10},
		{Colour: RGB{10, 10, 200}, Count: 10},
	}

	clusters := ClusterSamples(samples, ThemeClusterDistance)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	if got := clusters[0].Average; got != (RGB{202, 52, 52}) {
		t.Errorf("first cluster average = %v, want (202, 52, 52)", got)
	}
	if clusters[0].TotalCount != 20 {
		t.Errorf("first cluster total = %d, want 20", clusters[0].TotalCount)
	}
	if got := clusters[1].Average; got != (RGB{10, 10, 200}) {
		t.Errorf("second cluster average = %v, want (10, 10, 200)", got)
	}
}

func TestClusterSamples_FirstFitAgainstRepresentative(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{100, 0, 0}, Count: 1},
		{Colour: RGB{150, 0, 0}, Count: 1},
		// Closer to the second representative, but within range of the first.
		{Colour: RGB{135, 0, 0}, Count: 1},
	}

	clusters := ClusterSamples(samples, ThemeClusterDistance)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Representative != (RGB{100, 0, 0}) || len(clusters[0].Members) != 2 {
		t.Errorf("expected (135,0,0) to join the first cluster, got %+v", clusters[0])
	}
}

func TestClusterSamples_RepresentativeDoesNotDrift(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{100, 100, 100}, Count: 1},
		{Colour: RGB{130, 100, 100}, Count: 100},
		// Within range of the weighted centroid but not of the founding colour.
		{Colour: RGB{160, 100, 100}, Count: 1},
	}

	clusters := ClusterSamples(samples, ThemeClusterDistance)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Representative != (RGB{100, 100, 100}) {
		t.Errorf("representative changed to %v", clusters[0].Representative)
	}
}

func TestClusterSamples_StrictThreshold(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{0, 0, 100}, Count: 1},
		{Colour: RGB{0, 0, 140}, Count: 1}, // exactly 40 away
	}

	if got := len(ClusterSamples(samples, 40)); got != 2 {
		t.Errorf("expected samples at exactly the threshold to stay apart, got %d clusters", got)
	}
	if got := len(ClusterSamples(samples, 40.0001)); got != 1 {
		t.Errorf("expected samples inside the threshold to merge, got %d clusters", got)
	}
}

func TestClusterSamples_StableOrderOnTies(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{255, 0, 0}, Count: 5},
		{Colour: RGB{0, 255, 0}, Count: 7},
		{Colour: RGB{0, 0, 255}, Count: 5},
	}

	clusters := ClusterSamples(samples, DefaultClusterDistance)
	want := []RGB{{0, 255, 0}, {255, 0, 0}, {0, 0, 255}}
	for i, c := range clusters {
		if c.Representative != want[i] {
			t.Errorf("cluster %d = %v, want %v", i, c.Representative, want[i])
		}
	}
}

func TestClusterSamples_ConservesCounts(t *testing.T) {
	var samples []ColourSample
	for i := range 60 {
		samples = append(samples, ColourSample{
			Colour: RGB{uint8(i * 4), uint8(255 - i*3), uint8(i * 7 % 256)},
			Count:  i%9 + 1,
		})
	}

	for _, threshold := range []float64{1, DefaultClusterDistance, ThemeClusterDistance, 500} {
		clusters := ClusterSamples(samples, threshold)
		total := 0
		members := 0
		for _, c := range clusters {
			total += c.TotalCount
			members += len(c.Members)
		}
		if total != TotalCount(samples) {
			t.Errorf("threshold %v: cluster total %d, want %d", threshold, total, TotalCount(samples))
		}
		if members != len(samples) {
			t.Errorf("threshold %v: %d members, want %d", threshold, members, len(samples))
		}
	}
}

func TestClusterSamples_ReclusteringAveragesIsStable(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{200, 30, 30}, Count: 40},
		{Colour: RGB{210, 35, 28}, Count: 12},
		{Colour: RGB{20, 180, 40}, Count: 30},
		{Colour: RGB{30, 30, 200}, Count: 25},
		{Colour: RGB{120, 120, 120}, Count: 8},
	}

	first := ClusterSamples(samples, ThemeClusterDistance)

	averages := make([]ColourSample, len(first))
	for i, c := range first {
		averages[i] = ColourSample{Colour: c.Average, Count: 1}
	}
	for i := range averages {
		for j := i + 1; j < len(averages); j++ {
			if Distance(averages[i].Colour, averages[j].Colour) < ThemeClusterDistance {
				t.Fatalf("fixture averages %v and %v are too close", averages[i].Colour, averages[j].Colour)
			}
		}
	}

	second := ClusterSamples(averages, ThemeClusterDistance)
	if len(second) != len(first) {
		t.Errorf("re-clustering produced %d clusters, want %d", len(second), len(first))
	}
}

func TestClusterSamples_Deterministic(t *testing.T) {
	samples := []ColourSample{
		{Colour: RGB{12, 200, 99}, Count: 3},
		{Colour: RGB{15, 190, 101}, Count: 9},
		{Colour: RGB{250, 10, 10}, Count: 4},
		{Colour: RGB{240, 20, 15}, Count: 4},
	}

	a := ClusterSamples(samples, ThemeClusterDistance)
	b := ClusterSamples(samples, ThemeClusterDistance)
	if len(a) != len(b) {
		t.Fatalf("cluster counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Average != b[i].Average || a[i].TotalCount != b[i].TotalCount {
			t.Errorf("cluster %d differs between runs", i)
		}
	}
}

func TestClusterSamples_Empty(t *testing.T) {
	if clusters := ClusterSamples(nil, ThemeClusterDistance); len(clusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(clusters))
	}
}
