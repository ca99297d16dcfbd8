//go:build linux || darwin

package main

import (
	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

// raiseFileLimit makes room for maxConnections sockets plus world files.
func raiseFileLimit(maxConnections int) {
	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		glog.Warningf("reading file limit: %v", err)
		return
	}
	want := uint64(maxConnections) + 64
	if maxConnections == 0 || lim.Cur >= want {
		return
	}
	lim.Cur = min(want, lim.Max)
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		glog.Warningf("raising file limit to %d: %v", lim.Cur, err)
		return
	}
	glog.V(1).Infof("file limit raised to %d", lim.Cur)
}
