package colour

// Slot identifies one of the twelve fixed theme positions. The set is a
// closed enumeration: an invalid slot cannot be constructed from a name at
// run time, only looked up.
type Slot int

const (
	SlotBlack Slot = iota
	SlotRed
	SlotGreen
	SlotYellow
	SlotBlue
	SlotMagenta
	SlotCyan
	SlotWhite
	SlotBrightBlack
	SlotOrange
	SlotViolet
	SlotTeal

	// NumSlots is the number of theme slots. Every Theme fills all of them.
	NumSlots = 12
)

var slotNames = [NumSlots]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"brightblack", "orange", "violet", "teal",
}

// String returns the canonical slot name.
func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return "unknown"
	}
	return slotNames[s]
}

// Slots returns all slots in canonical order.
func Slots() [NumSlots]Slot {
	var out [NumSlots]Slot
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// SlotByName looks up a slot by its canonical name.
func SlotByName(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// chromatic reports whether the slot represents a hue rather than a neutral.
// Neutral slots prefer muted candidates during assignment, chromatic slots
// prefer bright ones.
func (s Slot) chromatic() bool {
	switch s {
	case SlotBlack, SlotWhite, SlotBrightBlack:
		return false
	}
	return true
}

// attractorRGB holds the canonical reference colour for each slot. The eight
// primary entries follow the xkcd colour survey results; the remaining four
// use common terminal palette values.
var attractorRGB = [NumSlots]RGB{
	SlotBlack:       {R: 0x00, G: 0x00, B: 0x00},
	SlotRed:         {R: 0xE5, G: 0x00, B: 0x00},
	SlotGreen:       {R: 0x15, G: 0xB0, B: 0x1A},
	SlotYellow:      {R: 0xFF, G: 0xFF, B: 0x14},
	SlotBlue:        {R: 0x03, G: 0x43, B: 0xDF},
	SlotMagenta:     {R: 0xFF, G: 0x02, B: 0x8D},
	SlotCyan:        {R: 0x13, G: 0xEA, B: 0xC9},
	SlotWhite:       {R: 0xFF, G: 0xFF, B: 0xFF},
	SlotBrightBlack: {R: 0x66, G: 0x66, B: 0x66},
	SlotOrange:      {R: 0xFF, G: 0xA5, B: 0x00},
	SlotViolet:      {R: 0xEE, G: 0x82, B: 0xEE},
	SlotTeal:        {R: 0x00, G: 0x80, B: 0x80},
}

// attractors is the working-space form of attractorRGB, built once at
// startup and read-only afterwards.
var attractors = func() [NumSlots]Colour {
	var out [NumSlots]Colour
	for i, rgb := range attractorRGB {
		out[i] = ToWorking(rgb)
	}
	return out
}()

// Attractor returns the canonical working-space colour for a slot.
func (s Slot) Attractor() Colour {
	return attractors[s]
}
