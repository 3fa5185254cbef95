// cgia_engine.go - per-scanline orchestration (spec.md §4.2.1, §4.2.5)

package main

// NextScanline renders the current raster into a fresh RGB buffer, advances
// the raster counter, and updates interrupt status. It is called once per
// hsync by the video concurrency domain (spec.md §5's "one scanline per
// hsync tick").
func (c *CGIA) NextScanline() []uint8 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	y := c.raster
	if y == 0 {
		for p := range c.internal {
			pi := &c.internal[p]
			pi.waitVBL = false
			pi.rowLineCount = 0
			pi.rowHeight = 0
			pi.spritesNeedUpdate = true
		}
	}

	out := make([]uint8, len(c.lineBuf))
	drawn := make([]bool, c.lineWidthPx)

	for p := 0; p < NumPlanes; p++ {
		if !c.planeEnabled(p) {
			continue
		}
		if c.isSpritePlane(p) {
			c.renderSpritePlane(p, y, out, drawn)
			continue
		}
		c.stepBackgroundPlane(p, y, out, drawn)
	}

	for i := 0; i < c.lineWidthPx; i++ {
		if !drawn[i] {
			r, g, b := paletteRGB(c.backColor)
			out[i*3], out[i*3+1], out[i*3+2] = r, g, b
		}
	}

	c.raster++
	if int(c.raster) >= DisplayHeightLines {
		c.raster = 0
	}
	c.postScanlineInterrupts(y)

	copy(c.lineBuf, out)
	return out
}

// stepBackgroundPlane advances plane p's display-list state machine for
// raster y (fetching the next mode row/blank/dup run when the previous one
// has finished) and renders the raster's pixels.
func (c *CGIA) stepBackgroundPlane(p int, y uint16, out []uint8, drawn []bool) {
	pi := &c.internal[p]
	pr := &c.planeRegs[p]

	if pi.waitVBL {
		return
	}

	if pi.rowLineCount >= pi.rowHeight {
		ins, runaway := c.runDLUntilModeRow(p, c.bckgndBank)
		switch {
		case runaway:
			pi.currentMode = modeRunaway
			pi.rowHeight = 1
			pi.rowLineCount = 0
		case ins.IsMode:
			pi.dlPC++
			pi.currentMode = ins.Mode
			pi.rowHeight = rowHeightFor(pr, ins.Mode)
			pi.rowLineCount = 0
		case ins.Kind == dlInstrBlank:
			pi.currentMode = modeBlank
			pi.rowHeight = int(ins.N) + 1
			pi.rowLineCount = 0
		case ins.Kind == dlInstrDup:
			pi.currentMode = modeDup
			pi.rowHeight = int(ins.N) + 1
			pi.rowLineCount = 0
		}
	}

	if pi.waitVBL {
		return
	}

	switch pi.currentMode {
	case modeBlank:
		// nothing: background/back-color shows through.
	case modeDup:
		c.replayLastLine(pi, out, drawn)
	case modeRunaway:
		c.renderDiagnosticLine(out, drawn)
	default:
		c.renderModeRow(p, pi.currentMode, pi.rowLineCount, out, drawn)
		c.cacheLastLine(pi, out, drawn)
	}
	pi.rowLineCount++
}

func (c *CGIA) cacheLastLine(pi *planeInternal, out []uint8, drawn []bool) {
	if pi.lastLine == nil {
		pi.lastLine = make([]uint8, len(out))
		pi.lastDrawn = make([]bool, len(drawn))
	}
	copy(pi.lastLine, out)
	copy(pi.lastDrawn, drawn)
}

func (c *CGIA) replayLastLine(pi *planeInternal, out []uint8, drawn []bool) {
	if pi.lastLine == nil {
		return
	}
	for i, was := range pi.lastDrawn {
		if was {
			out[i*3], out[i*3+1], out[i*3+2] = pi.lastLine[i*3], pi.lastLine[i*3+1], pi.lastLine[i*3+2]
			drawn[i] = true
		}
	}
}

// postScanlineInterrupts latches VBI/DLI/RSI conditions for the raster
// just rendered (spec.md §4.2.5). VBI latches for every render of raster
// 0 itself (the original sets it via `if (y==0)` at the start of line 0's
// own render), including the very first frame after power-on - not only
// when the raster counter wraps back to 0 from its maximum.
func (c *CGIA) postScanlineInterrupts(y uint16) {
	var bits uint8
	if y == 0 {
		bits |= IntVBI
	}
	if y == c.intRaster {
		bits |= IntRSI
	}
	for p := range c.internal {
		if c.internal[p].dliThisLine {
			bits |= IntDLI
			c.internal[p].dliThisLine = false
		}
	}
	if bits != 0 {
		c.intStatus |= bits
		c.intMask |= bits
		c.updateNMI()
	}
}
