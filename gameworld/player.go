package gameworld

import (
	"math"
	"sync"
	"time"

	"badc0de.net/pkg/go-glowstone/protocol"
)

// EyeHeight is how far above the feet the client places the camera.
const EyeHeight = 1.62

// Position is an entity's location and look.
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// ChunkX is the x coordinate of the column containing the position.
func (p Position) ChunkX() int32 { return floorDiv16(p.X) }
func (p Position) ChunkZ() int32 { return floorDiv16(p.Z) }

func floorDiv16(v float64) int32 {
	return int32(math.Floor(v)) >> 4
}

// Player is a session which has joined the world.
type Player struct {
	EntityID int32
	Identity protocol.Identity
	Session  protocol.Session

	mu            sync.Mutex
	pos           Position
	lastKeepAlive time.Time
}

func (p *Player) Position() Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Player) setPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
}

func (p *Player) setOnGround(onGround bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos.OnGround = onGround
}

// LastKeepAlive is when the client last answered a keep-alive.
func (p *Player) LastKeepAlive() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastKeepAlive
}

func (p *Player) keepAlive(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastKeepAlive = t
}
