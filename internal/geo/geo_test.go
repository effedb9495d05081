package geo

import "testing"

func TestDisplayNameFallback(t *testing.T) {
	if got := DisplayName("de"); got != "Germany" {
		t.Errorf("expected Germany, got %q", got)
	}
	if got := DisplayName("XX"); got != "XX" {
		t.Errorf("unknown code should render raw, got %q", got)
	}
}

func TestScaleDegenerateRange(t *testing.T) {
	s, ok := NewScale([]float64{5, 5, 5})
	if !ok {
		t.Fatal("expected a scale")
	}
	if s.Min != 5 || s.Max != 6 {
		t.Errorf("degenerate range should widen to [5,6], got [%v,%v]", s.Min, s.Max)
	}
}

func TestScaleBuckets(t *testing.T) {
	s, _ := NewScale([]float64{0, 10})
	cases := []struct {
		v    float64
		want int
	}{
		{-5, 0},  // clamp low
		{0, 0},   //
		{4.9, 1}, //
		{10, 3},  // top value lands in last bucket
		{99, 3},  // clamp high
	}
	for _, c := range cases {
		if got := s.Bucket(c.v, 4); got != c.want {
			t.Errorf("Bucket(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestRegistryIdempotent(t *testing.T) {
	r := NewRegistry()
	first := Dataset{Name: "world", Regions: []Region{{Name: "A", Countries: []string{"US"}}}}
	second := Dataset{Name: "other", Regions: []Region{{Name: "B", Countries: []string{"DE"}}}}

	r.Register("map", first)
	r.Register("map", second) // must not replace

	got, ok := r.Get("map")
	if !ok || got.Name != "world" {
		t.Fatalf("expected first registration to win, got %+v ok=%v", got, ok)
	}
}

func TestBundledWorldParses(t *testing.T) {
	ds := BundledWorld()
	if ds.Name != "world" || len(ds.Regions) == 0 {
		t.Fatalf("bundled dataset malformed: %+v", ds)
	}
}

func TestParseDatasetJSON(t *testing.T) {
	doc := []byte(`{"name":"world","regions":[{"name":"Americas","countries":["US","CA"]}]}`)
	ds, err := ParseDataset(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Regions) != 1 || ds.Regions[0].Countries[0] != "US" {
		t.Errorf("unexpected dataset: %+v", ds)
	}
}

func TestParseDatasetEmpty(t *testing.T) {
	if _, err := ParseDataset([]byte(`{"name":"empty"}`)); err == nil {
		t.Fatal("expected error for dataset without regions")
	}
}
