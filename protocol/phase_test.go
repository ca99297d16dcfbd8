package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPhase(t *testing.T) {
	p, err := NextPhase(1)
	assert.NoError(t, err)
	assert.Equal(t, Status, p)

	p, err = NextPhase(2)
	assert.NoError(t, err)
	assert.Equal(t, Login, p)

	for _, bad := range []uint32{0, 3, 0xffffffff} {
		_, err := NextPhase(bad)
		var te *TransitionError
		if assert.ErrorAs(t, err, &te) {
			assert.Equal(t, bad, te.NextState)
		}
		assert.True(t, IsProtocolError(err))
	}
}

func TestCheckTransition(t *testing.T) {
	allowed := map[[2]Phase]bool{
		{Handshake, Status}: true,
		{Handshake, Login}:  true,
		{Login, Play}:       true,
	}
	phases := []Phase{Handshake, Status, Login, Play}
	for _, from := range phases {
		for _, to := range phases {
			err := CheckTransition(from, to)
			if allowed[[2]Phase{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "PLAY", Play.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}
