package colour

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Histogram is a weighted set of representative colours, ordered by weight
// descending. It is produced once per image by the extractor and is not
// mutated after construction.
type Histogram []WeightedColour

// TotalWeight returns the sum of all entry weights. For a histogram produced
// by Extract this equals the pixel count of the source image.
func (h Histogram) TotalWeight() float64 {
	var total float64
	for _, wc := range h {
		total += wc.Weight
	}
	return total
}

// sortByWeight orders entries by weight descending, ties by hex code.
func (h Histogram) sortByWeight() {
	sort.SliceStable(h, func(i, j int) bool { return h[i].less(h[j]) })
}

// WriteTo serialises the histogram as CSV with a "count,hex" header, one
// entry per row. Weights are formatted so that they parse back bit-exact.
func (h Histogram) WriteTo(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"count", "hex"}); err != nil {
		return fmt.Errorf("failed to write histogram header: %w", err)
	}
	for _, wc := range h {
		row := []string{
			strconv.FormatFloat(wc.Weight, 'g', -1, 64),
			wc.Colour.RGB().Hex(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write histogram row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// histEntry is the JSON form of one histogram row.
type histEntry struct {
	Count float64 `json:"count"`
	Hex   string  `json:"hex"`
}

// WriteJSON serialises the histogram as a JSON array of count/hex pairs.
func (h Histogram) WriteJSON(w io.Writer) error {
	entries := make([]histEntry, len(h))
	for i, wc := range h {
		entries[i] = histEntry{Count: wc.Weight, Hex: wc.Colour.RGB().Hex()}
	}
	return json.NewEncoder(w).Encode(entries)
}

// ReadHistogram parses a histogram previously written by WriteTo.
// Entries are re-sorted by weight so hand-edited files still satisfy the
// ordering invariant. An empty file yields ErrEmptyInput.
func ReadHistogram(r io.Reader) (Histogram, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse histogram: %w", err)
	}
	if len(records) > 0 && records[0][0] == "count" {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("histogram file: %w", ErrEmptyInput)
	}

	hist := make(Histogram, 0, len(records))
	for i, rec := range records {
		weight, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("histogram row %d: bad count %q: %w", i+1, rec[0], err)
		}
		if weight < 0 {
			return nil, fmt.Errorf("histogram row %d: negative count %v", i+1, weight)
		}
		rgb, err := ParseHex(rec[1])
		if err != nil {
			return nil, fmt.Errorf("histogram row %d: %w", i+1, err)
		}
		hist = append(hist, WeightedColour{Colour: ToWorking(rgb), Weight: weight})
	}

	hist.sortByWeight()
	return hist, nil
}
