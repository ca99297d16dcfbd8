// Package gameworld serves the PLAY phase: the join sequence, the chunk
// columns sent to players, and chat and movement from them.
package gameworld
