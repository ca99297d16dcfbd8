//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package main

import "github.com/pkg/errors"

type termSize struct {
	WSRow, WSCol uint
}

func getTermSize() (termSize, error) {
	return termSize{}, errors.New("terminal size unknown on this platform")
}
