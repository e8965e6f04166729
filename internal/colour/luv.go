package colour

import "math"

// sRGB to XYZ (D65) conversion constants.
const (
	refX = 95.047
	refY = 100.0
	refZ = 108.883

	// CIE threshold between the linear and cube-root segments of the
	// lightness function.
	epsilonY = 0.008856
	kappaY   = 7.787
)

// D65 reference white chromaticity, used by the LUV transform.
var (
	refU = (4 * refX) / (refX + 15*refY + 3*refZ)
	refV = (9 * refY) / (refX + 15*refY + 3*refZ)
)

// linearise converts an 8-bit sRGB channel to linear light in [0, 100].
func linearise(c uint8) float64 {
	v := float64(c) / 255.0
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4) * 100
	}
	return v / 12.92 * 100
}

// delinearise converts linear light back to an 8-bit sRGB channel.
func delinearise(v float64) uint8 {
	var out float64
	if v > 0.0031308 {
		out = math.Round((1.055*math.Pow(v, 1/2.4) - 0.055) * 255)
	} else {
		out = math.Round(12.92 * v * 255)
	}
	return uint8(math.Min(255, math.Max(0, out)))
}

// rgbToXYZ converts a native colour to CIE XYZ (D65, Y scaled to 100).
func rgbToXYZ(c RGB) (x, y, z float64) {
	vr := linearise(c.R)
	vg := linearise(c.G)
	vb := linearise(c.B)
	x = vr*0.4124 + vg*0.3576 + vb*0.1805
	y = vr*0.2126 + vg*0.7152 + vb*0.0722
	z = vr*0.0193 + vg*0.1192 + vb*0.9505
	return x, y, z
}

// xyzToRGB converts CIE XYZ back to the native 8-bit representation.
func xyzToRGB(x, y, z float64) RGB {
	vx, vy, vz := x/100, y/100, z/100
	vr := 3.2406*vx - 1.5372*vy - 0.4986*vz
	vg := -0.9689*vx + 1.8758*vy + 0.0415*vz
	vb := 0.0557*vx - 0.2040*vy + 1.0570*vz
	return RGB{R: delinearise(vr), G: delinearise(vg), B: delinearise(vb)}
}

// ToWorking converts a native colour into the CIE-LUV working space.
// The function is pure and total: every 8-bit input maps to a valid Colour.
func ToWorking(c RGB) Colour {
	x, y, z := rgbToXYZ(c)

	den := x + 15*y + 3*z
	var up, vp float64
	if den != 0 {
		up = (4 * x) / den
		vp = (9 * y) / den
	}

	yr := y / refY
	var vy float64
	if yr > epsilonY {
		vy = math.Cbrt(yr)
	} else {
		vy = kappaY*yr + 16.0/116.0
	}
	l := 116*vy - 16

	if l <= 0 {
		return Colour{}
	}
	return Colour{
		L: l,
		U: 13 * l * (up - refU),
		V: 13 * l * (vp - refV),
	}
}

// RGB converts the working-space colour back to the native representation.
// Round-trip error from ToWorking is bounded by the 8-bit channel precision.
func (c Colour) RGB() RGB {
	if c.L <= 0 {
		return RGB{}
	}

	vy := (c.L + 16) / 116
	var yr float64
	if vy*vy*vy > epsilonY {
		yr = vy * vy * vy
	} else {
		yr = (vy - 16.0/116.0) / kappaY
	}
	y := yr * refY

	up := c.U/(13*c.L) + refU
	vp := c.V/(13*c.L) + refV
	if vp == 0 {
		return xyzToRGB(0, y, 0)
	}

	x := y * (9 * up) / (4 * vp)
	z := y * (12 - 3*up - 20*vp) / (4 * vp)
	return xyzToRGB(x, y, z)
}

// Distance is the Euclidean distance between two working-space colours.
// It is a true metric: symmetric, zero only for identical colours, and
// satisfying the triangle inequality, which the clustering relies on.
func Distance(a, b Colour) float64 {
	dl := a.L - b.L
	du := a.U - b.U
	dv := a.V - b.V
	return math.Sqrt(dl*dl + du*du + dv*dv)
}

// mix linearly interpolates between two working-space colours.
// t=0 returns a, t=1 returns b.
func mix(a, b Colour, t float64) Colour {
	return Colour{
		L: a.L + (b.L-a.L)*t,
		U: a.U + (b.U-a.U)*t,
		V: a.V + (b.V-a.V)*t,
	}
}

// rgbToHSV converts a native colour to HSV.
// Returns hue in [0, 360) and saturation/value in [0, 1]. The assigner uses
// saturation and value to split candidates into bright and muted subsets.
func rgbToHSV(c RGB) (h, s, v float64) {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	delta := maxV - minV

	v = maxV
	if delta == 0 {
		return 0, 0, v
	}
	s = delta / maxV

	switch maxV {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}
	h *= 60
	return h, s, v
}
