package colour

import (
	"bytes"
	"errors"
	"testing"
)

// attractorHistogram returns a histogram holding exactly the twelve canonical
// slot colours at equal weight.
func attractorHistogram() Histogram {
	hist := make(Histogram, 0, NumSlots)
	for _, slot := range Slots() {
		hist = append(hist, WeightedColour{Colour: slot.Attractor(), Weight: 1})
	}
	hist.sortByWeight()
	return hist
}

func TestRefineEmptyHistogram(t *testing.T) {
	_, err := Refine(nil, DefaultAssignerOptions())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Refine(empty) error = %v, want %v", err, ErrEmptyInput)
	}
}

func TestRefineCompletenessSingleColour(t *testing.T) {
	red := ToWorking(RGB{R: 229, G: 0, B: 0})
	hist := Histogram{{Colour: red, Weight: 4096}}

	theme, err := Refine(hist, DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	// The only candidate lands on its best slot untouched.
	if d := Distance(theme.Colour(SlotRed), red); d != 0 {
		t.Errorf("red slot is %v from the input colour, want 0", d)
	}

	// Every other slot is synthesized, and no two slots collide. This is
	// the accepted degradation case: full diversity cannot hold with a
	// single input colour, distinctness still must.
	slots := Slots()
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if d := Distance(theme.Colour(slots[i]), theme.Colour(slots[j])); d < perturbEps {
				t.Errorf("slots %v and %v are %v apart, want >= %v",
					slots[i], slots[j], d, perturbEps)
			}
		}
	}
}

func TestRefineExactCanonicalColours(t *testing.T) {
	// One candidate per slot, each sitting exactly on its attractor: the
	// refined theme must map every slot to its own colour with zero error.
	theme, err := Refine(attractorHistogram(), DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	for _, slot := range Slots() {
		if d := Distance(theme.Colour(slot), slot.Attractor()); d != 0 {
			t.Errorf("slot %v is %v from its canonical colour, want 0", slot, d)
		}
		if got, want := theme.Colour(slot).RGB(), attractorRGB[slot]; got != want {
			t.Errorf("slot %v = %v, want %v", slot, got, want)
		}
	}
}

func TestRefineDiversity(t *testing.T) {
	theme, err := Refine(attractorHistogram(), DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	slots := Slots()
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			d := Distance(theme.Colour(slots[i]), theme.Colour(slots[j]))
			if d < DiversityThreshold {
				t.Errorf("slots %v and %v are %v apart, want >= %v",
					slots[i], slots[j], d, DiversityThreshold)
			}
		}
	}
}

func TestRefineDiversityWithMix(t *testing.T) {
	// A decoy sits just outside the diversity radius of the red attractor,
	// on the far side from magenta. Mixing it a quarter of the way toward
	// the magenta attractor drags it almost onto the red slot, so the scored
	// pass must judge the mixed colour and hand the magenta slot to the true
	// magenta instead.
	red := SlotRed.Attractor()
	magenta := SlotMagenta.Attractor()
	reach := (DiversityThreshold + 1) / Distance(red, magenta)
	decoy := Colour{
		L: red.L + (red.L-magenta.L)*reach,
		U: red.U + (red.U-magenta.U)*reach,
		V: red.V + (red.V-magenta.V)*reach,
	}

	// Every slot has its own attractor available, but the magenta one is so
	// light that the heavy decoy outscores it for the magenta slot.
	hist := make(Histogram, 0, NumSlots+1)
	for _, slot := range Slots() {
		weight := 1000.0
		if slot == SlotMagenta {
			weight = 1
		}
		hist = append(hist, WeightedColour{Colour: slot.Attractor(), Weight: weight})
	}
	hist = append(hist, WeightedColour{Colour: decoy, Weight: 1000})
	hist.sortByWeight()

	theme, err := Refine(hist, AssignerOptions{Mix: 0.25, Diversity: DiversityThreshold})
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	if d := Distance(theme.Colour(SlotRed), theme.Colour(SlotMagenta)); d < DiversityThreshold {
		t.Errorf("red and magenta slots are %v apart, want >= %v", d, DiversityThreshold)
	}
	slots := Slots()
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			d := Distance(theme.Colour(slots[i]), theme.Colour(slots[j]))
			if d < DiversityThreshold {
				t.Errorf("slots %v and %v are %v apart, want >= %v",
					slots[i], slots[j], d, DiversityThreshold)
			}
		}
	}
}

func TestRefineMixPullsTowardAttractor(t *testing.T) {
	// A single pure-red candidate with full mix collapses onto the
	// attractor itself.
	hist := Histogram{{Colour: ToWorking(RGB{R: 255, G: 0, B: 0}), Weight: 10}}

	theme, err := Refine(hist, AssignerOptions{Mix: 1, Diversity: DiversityThreshold})
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if d := Distance(theme.Colour(SlotRed), SlotRed.Attractor()); d != 0 {
		t.Errorf("red slot is %v from the attractor with mix=1, want 0", d)
	}
}

func TestRefineUsesNearestUnusedCandidate(t *testing.T) {
	// Two near-identical reds: diversity blocks the second from scoring a
	// slot, but the coverage fallback still places it before synthesizing.
	a := ToWorking(RGB{R: 255, G: 0, B: 0})
	b := ToWorking(RGB{R: 242, G: 5, B: 5})
	hist := Histogram{
		{Colour: a, Weight: 10},
		{Colour: b, Weight: 5},
	}

	theme, err := Refine(hist, DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	foundA, foundB := false, false
	for _, slot := range Slots() {
		if Distance(theme.Colour(slot), a) == 0 {
			foundA = true
		}
		if Distance(theme.Colour(slot), b) == 0 {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Errorf("both candidates should appear in the theme (a=%v, b=%v)", foundA, foundB)
	}
}

func TestRefineDeterminism(t *testing.T) {
	img := gradientImage(60, 60)
	hist, err := NewExtractor().Extract(img, 24)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	first, err := Refine(hist, DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("first Refine returned error: %v", err)
	}
	second, err := Refine(hist, DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("second Refine returned error: %v", err)
	}
	if first != second {
		t.Errorf("repeated refinement differs:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestSolidRedPipeline(t *testing.T) {
	red := RGB{R: 255, G: 0, B: 0}
	img := solidImage(32, 32, red)

	hist, err := NewExtractor().Extract(img, DefaultColourCount)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(hist) != 1 || hist[0].Weight != 32*32 {
		t.Fatalf("histogram = %v, want single entry of weight %d", hist, 32*32)
	}

	theme, err := Refine(hist, DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if d := Distance(theme.Colour(SlotRed), ToWorking(red)); d != 0 {
		t.Errorf("red slot is %v from the image colour, want 0", d)
	}
}

func TestThemeJSONRoundTrip(t *testing.T) {
	theme, err := Refine(attractorHistogram(), DefaultAssignerOptions())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := theme.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo returned error: %v", err)
	}

	got, err := ReadTheme(&buf)
	if err != nil {
		t.Fatalf("ReadTheme returned error: %v", err)
	}
	for _, slot := range Slots() {
		if got.Colour(slot).RGB() != theme.Colour(slot).RGB() {
			t.Errorf("slot %v round-tripped to %v, want %v",
				slot, got.Colour(slot).RGB(), theme.Colour(slot).RGB())
		}
	}
}

func TestSlotByName(t *testing.T) {
	for _, slot := range Slots() {
		got, ok := SlotByName(slot.String())
		if !ok || got != slot {
			t.Errorf("SlotByName(%q) = %v, %v; want %v, true", slot.String(), got, ok, slot)
		}
	}
	if _, ok := SlotByName("chartreuse"); ok {
		t.Error("SlotByName accepted an unknown name")
	}
}
