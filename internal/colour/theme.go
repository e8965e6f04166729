package colour

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

const (
	// DiversityThreshold is the minimum working-space distance the assigner
	// keeps between any two slot colours chosen by score. It is deliberately
	// larger than the extractor's merge threshold.
	DiversityThreshold = 20.0

	// perturbEps is the distance below which a synthesized fallback colour
	// counts as a duplicate of an already-assigned one.
	perturbEps = 2.0
)

// Theme maps every slot to exactly one colour. A Theme produced by Refine is
// always fully populated, whatever the input histogram looked like.
type Theme [NumSlots]Colour

// Colour returns the colour assigned to a slot.
func (t Theme) Colour(s Slot) Colour {
	return t[s]
}

// themeJSON is the on-disk form of a theme: one hex code per slot name,
// matching the colour file consumed by the renderer.
type themeJSON struct {
	Black       string `json:"black"`
	Red         string `json:"red"`
	Green       string `json:"green"`
	Yellow      string `json:"yellow"`
	Blue        string `json:"blue"`
	Magenta     string `json:"magenta"`
	Cyan        string `json:"cyan"`
	White       string `json:"white"`
	BrightBlack string `json:"brightblack"`
	Orange      string `json:"orange"`
	Violet      string `json:"violet"`
	Teal        string `json:"teal"`
}

// WriteTo serialises the theme as JSON keyed by slot name.
func (t Theme) WriteTo(w io.Writer) error {
	out := themeJSON{
		Black:       t[SlotBlack].RGB().Hex(),
		Red:         t[SlotRed].RGB().Hex(),
		Green:       t[SlotGreen].RGB().Hex(),
		Yellow:      t[SlotYellow].RGB().Hex(),
		Blue:        t[SlotBlue].RGB().Hex(),
		Magenta:     t[SlotMagenta].RGB().Hex(),
		Cyan:        t[SlotCyan].RGB().Hex(),
		White:       t[SlotWhite].RGB().Hex(),
		BrightBlack: t[SlotBrightBlack].RGB().Hex(),
		Orange:      t[SlotOrange].RGB().Hex(),
		Violet:      t[SlotViolet].RGB().Hex(),
		Teal:        t[SlotTeal].RGB().Hex(),
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// ReadTheme parses a theme previously written by WriteTo.
func ReadTheme(r io.Reader) (Theme, error) {
	var in themeJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Theme{}, fmt.Errorf("failed to parse theme: %w", err)
	}

	fields := [NumSlots]string{
		in.Black, in.Red, in.Green, in.Yellow, in.Blue, in.Magenta,
		in.Cyan, in.White, in.BrightBlack, in.Orange, in.Violet, in.Teal,
	}
	var t Theme
	for i, hex := range fields {
		rgb, err := ParseHex(hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme slot %q: %w", Slot(i), err)
		}
		t[i] = ToWorking(rgb)
	}
	return t, nil
}

// AssignerOptions tunes theme refinement.
type AssignerOptions struct {
	// Mix blends each chosen colour toward its slot's pure attractor:
	// 0 keeps candidates exactly as extracted, 1 ignores the image entirely.
	// Values around 0.25 suit homogeneous images.
	Mix float64

	// Diversity is the minimum distance between scored slot assignments.
	Diversity float64
}

// DefaultAssignerOptions returns the options used when callers pass none.
func DefaultAssignerOptions() AssignerOptions {
	return AssignerOptions{Mix: 0, Diversity: DiversityThreshold}
}

// candidate is a histogram entry annotated for assignment.
type candidate struct {
	rank   int
	colour Colour
	weight float64
	bright bool
}

// pairing scores one candidate against one slot.
type pairing struct {
	cand  int
	slot  Slot
	score float64
}

// Refine re-buckets a histogram into the twelve named theme slots.
//
// Candidates are scored against every slot attractor by weight and inverse
// perceptual distance and assigned greedily, skipping assignments that would
// put two slot colours within the diversity threshold of each other. Slots
// left over are filled from the nearest unused candidate, and as a last
// resort synthesized from the slot's own attractor, perturbed in lightness
// until distinct from every colour already used. The returned theme therefore
// always has all twelve slots filled; only an empty histogram fails.
func Refine(hist Histogram, opts AssignerOptions) (Theme, error) {
	if len(hist) == 0 {
		return Theme{}, fmt.Errorf("histogram: %w", ErrEmptyInput)
	}
	if opts.Diversity <= 0 {
		opts.Diversity = DiversityThreshold
	}

	cands := annotate(hist)
	pairs := scorePairs(cands)

	var theme Theme
	var filled [NumSlots]bool
	used := make([]bool, len(cands))
	var assigned []Colour

	// Best-match pass: highest score first, at most one colour per slot,
	// each assignment kept clear of the ones before it. The diversity check
	// runs on the mixed colour, since that is what lands on the theme; a
	// candidate that passes raw but collides after mixing must be skipped.
	for _, p := range pairs {
		if filled[p.slot] || used[p.cand] {
			continue
		}
		c := blend(cands[p.cand].colour, p.slot, opts.Mix)
		if tooClose(c, assigned, opts.Diversity) {
			continue
		}
		place(&theme, &filled, p.slot, c, &assigned)
		used[p.cand] = true
	}

	// Nearest-unused pass: weight and diversity no longer matter, coverage
	// does.
	for _, slot := range Slots() {
		if filled[slot] {
			continue
		}
		best := -1
		bestDist := 0.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			d := Distance(c.colour, slot.Attractor())
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}
		place(&theme, &filled, slot, blend(cands[best].colour, slot, opts.Mix), &assigned)
		used[best] = true
	}

	// Synthesis pass: the histogram is exhausted, fall back to the slot's
	// own attractor, nudged away from colours already on the theme.
	for _, slot := range Slots() {
		if filled[slot] {
			continue
		}
		place(&theme, &filled, slot, perturb(slot.Attractor(), assigned), &assigned)
	}

	return theme, nil
}

// place records a slot assignment.
func place(theme *Theme, filled *[NumSlots]bool, slot Slot, c Colour, assigned *[]Colour) {
	theme[slot] = c
	filled[slot] = true
	*assigned = append(*assigned, c)
}

// annotate converts histogram entries into candidates, classifying each as
// bright or muted relative to the histogram's median saturation and value.
func annotate(hist Histogram) []candidate {
	sats := make([]float64, len(hist))
	vals := make([]float64, len(hist))
	for i, wc := range hist {
		_, s, v := rgbToHSV(wc.Colour.RGB())
		sats[i] = s
		vals[i] = v
	}
	medS := median(sats)
	medV := median(vals)

	cands := make([]candidate, len(hist))
	for i, wc := range hist {
		_, s, v := rgbToHSV(wc.Colour.RGB())
		cands[i] = candidate{
			rank:   i,
			colour: wc.Colour,
			weight: wc.Weight,
			bright: s > medS && v > medV,
		}
	}
	return cands
}

// scorePairs builds every candidate/slot pairing ordered by descending
// score. Chromatic slots favour bright candidates and neutral slots favour
// muted ones, as a preference rather than a filter. Ties break on histogram
// rank, then slot order, keeping refinement deterministic.
func scorePairs(cands []candidate) []pairing {
	const mutedPenalty = 0.6

	pairs := make([]pairing, 0, len(cands)*NumSlots)
	for i, c := range cands {
		for _, slot := range Slots() {
			pref := 1.0
			if slot.chromatic() != c.bright {
				pref = mutedPenalty
			}
			d := Distance(c.colour, slot.Attractor())
			pairs = append(pairs, pairing{
				cand:  i,
				slot:  slot,
				score: c.weight * pref / (1 + d),
			})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		if pairs[a].cand != pairs[b].cand {
			return pairs[a].cand < pairs[b].cand
		}
		return pairs[a].slot < pairs[b].slot
	})
	return pairs
}

// blend mixes a candidate toward its slot's attractor by the configured
// proportion.
func blend(c Colour, slot Slot, mixAmount float64) Colour {
	if mixAmount <= 0 {
		return c
	}
	return mix(c, slot.Attractor(), mixAmount)
}

// tooClose reports whether c sits within dist of any already-assigned colour.
func tooClose(c Colour, assigned []Colour, dist float64) bool {
	for _, a := range assigned {
		if Distance(c, a) < dist {
			return true
		}
	}
	return false
}

// perturb nudges a synthesized colour in lightness until it is no longer a
// near-duplicate of any used colour. Steps alternate up and down in growing
// increments; the colour is returned as soon as it is distinct.
func perturb(c Colour, assigned []Colour) Colour {
	if !tooClose(c, assigned, perturbEps) {
		return c
	}
	for step := 1; step <= 32; step++ {
		delta := float64((step+1)/2) * 3.0
		if step%2 == 0 {
			delta = -delta
		}
		next := Colour{L: clamp(c.L+delta, 0, 100), U: c.U, V: c.V}
		if !tooClose(next, assigned, perturbEps) {
			return next
		}
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// median returns the middle value of vs; the mean of the two middle values
// for even lengths. vs is not modified.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
