// Package hardware is the base package for the simulated video peripheral.
// It has no code of its own.
//
// The vsi sub-package is the register file of the peripheral and is the part
// that talks to the video backend. The armvsi sub-package wraps the register
// file in the peripheral block of the simulated Arm system: the interrupt
// lines, the timer, the DMA channel and the memory the DMA channel transfers
// frames to and from.
package hardware
