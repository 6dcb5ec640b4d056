//go:build windows && amd64

package peb

// pebOffset is the PEB pointer's offset in the TEB, read through GS.
const pebOffset = 0x60
