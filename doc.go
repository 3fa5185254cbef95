// doc.go - package overview for the X65 firmware simulator

/*
x65 is a from-scratch reimplementation of the X65 retro microcomputer
firmware: the CGIA scanline video engine, the SGU-1 FM/PCM synthesizer,
the PIX message bus that connects them to the CPU-facing bridge, and the
CPU-visible register file that routes to all three.

The 65C816 bus-cycle front end itself is out of scope (see spec.md §1):
this package exposes the CPU's view as a trusted (addr24, data, rw)
transaction stream rather than emulating 65C816 instructions.

See SPEC_FULL.md for the full component breakdown and DESIGN.md for the
grounding of each file against the reference material this was built from.
*/
package main
