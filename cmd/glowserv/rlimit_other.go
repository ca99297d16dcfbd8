//go:build !(linux || darwin)

package main

func raiseFileLimit(int) {}
