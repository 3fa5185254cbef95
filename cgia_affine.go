// cgia_affine.go - MODE7 affine-texture interpolator lanes (spec.md §4.2.3, §9)

package main

// affineLane is a fixed-point (accum, base, shift, mask) interpolator lane,
// software-equivalent to the interpolator hardware design note in spec.md
// §9: two lanes per plane (U and V), saved/restored across lines so a row
// can resume mid-texture after a DLI or a blank-line gap.
type affineLane struct {
	accum int32 // current fixed-point position, Mode7FracBits fractional bits
	base  int32 // per-line reset value, reloaded at the start of a mode row
	step  int32 // per-pixel increment
	lineStep int32 // per-line increment added to base
	mask  int32 // wrap mask applied to the integer coordinate returned by next (texture size - 1)
}

// reset reloads the lane's accumulator from its base, at the start of a row.
func (l *affineLane) reset() {
	l.accum = l.base
}

// advanceLine bumps the lane's base for the next raster and reloads accum.
func (l *affineLane) advanceLine() {
	l.base += l.lineStep
	l.reset()
}

// next returns the current integer texel coordinate and advances the lane
// by one pixel step.
func (l *affineLane) next() int32 {
	v := (l.accum >> Mode7FracBits) & l.mask
	l.accum += l.step
	return v
}

// loadAffineLanes configures both interpolator lanes for a MODE7 row from
// the plane's register block. The exact register packing is chosen to fit
// within the existing 16-byte PlaneRegs block (bytes 8..15), since spec.md
// leaves MODE7's parameter layout to the implementation beyond naming the
// two lanes (see DESIGN.md open question "MODE7 parameter packing").
func loadAffineLanes(pr *PlaneRegs, pi *planeInternal) {
	u := &pi.interpU
	v := &pi.interpV
	u.base = int32(int16(uint16(pr[8]) | uint16(pr[9])<<8))
	u.step = int32(int8(pr[10]))
	u.lineStep = int32(int8(pr[11]))
	u.mask = 0xFF
	v.base = int32(int16(uint16(pr[12]) | uint16(pr[13])<<8))
	v.step = int32(int8(pr[14]))
	v.lineStep = 0
	v.mask = 0xFF
	u.reset()
	v.reset()
}
