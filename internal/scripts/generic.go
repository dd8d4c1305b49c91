package scripts

import (
	"github.com/worldscript/server/internal/game"
	"github.com/worldscript/server/internal/script"
)

// genericCreatureAI is the fallback combat AI: fight whoever we are
// fighting, evade when told to.
type genericCreatureAI struct {
	creature game.Creature
}

func (ai *genericCreatureAI) UpdateAI(diffMs uint32) {
	if !ai.creature.IsAlive() {
		return
	}
}

func registerGenericCreature(m *script.Mgr) {
	m.Register(&script.Script{
		Name: "generic_creature",
		GetAI: func(c game.Creature) game.CreatureAI {
			return &genericCreatureAI{creature: c}
		},
	})
}

// escortAI walks a creature along its waypoint path, honoring per-point
// wait times. Paths come from the script_waypoint table via the manager.
type escortAI struct {
	creature game.Creature
	points   []script.PointMove

	next     int
	waitLeft uint32
	moving   bool
}

func (ai *escortAI) UpdateAI(diffMs uint32) {
	if !ai.creature.IsAlive() || ai.next >= len(ai.points) {
		return
	}

	if ai.waitLeft > 0 {
		if ai.waitLeft > diffMs {
			ai.waitLeft -= diffMs
			return
		}
		ai.waitLeft = 0
	}

	if !ai.moving {
		pt := ai.points[ai.next]
		ai.creature.MovePoint(pt.X, pt.Y, pt.Z, 0)
		ai.moving = true
	}
}

// PointReached advances the escort past the waypoint it just arrived at.
// The simulation calls this from its movement-complete notification.
func (ai *escortAI) PointReached(pointID uint32) {
	if ai.next >= len(ai.points) || ai.points[ai.next].PointID != pointID {
		return
	}
	ai.waitLeft = ai.points[ai.next].WaitTime
	ai.next++
	ai.moving = false
}

func registerNpcEscort(m *script.Mgr) {
	m.Register(&script.Script{
		Name: "npc_escort",
		GetAI: func(c game.Creature) game.CreatureAI {
			return &escortAI{
				creature: c,
				points:   m.GetPointMoveList(c.Entry()),
			}
		},
	})
}
