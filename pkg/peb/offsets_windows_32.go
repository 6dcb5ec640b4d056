//go:build windows && 386

package peb

// pebOffset is the PEB pointer's offset in the TEB, read through FS.
const pebOffset = 0x30
