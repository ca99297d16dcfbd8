// Package login drives the LOGIN phase: the optional key exchange that
// turns on encryption, authentication, and the switch to PLAY.
package login
