package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PointMove is one waypoint on a scripted movement path.
type PointMove struct {
	PointID  uint32
	X, Y, Z  float32
	WaitTime uint32 // milliseconds
}

// EscortData ties an escort creature to the quest its escort serves.
type EscortData struct {
	CreatureID    uint32
	QuestID       uint32
	EscortFaction uint32
}

// LoadScriptWaypoints loads the script_waypoint table, keyed by creature
// entry. Points for unknown or unscripted creatures are dropped with a
// warning.
func (m *Mgr) LoadScriptWaypoints(ctx context.Context, q Querier) error {
	rows, err := q.Query(ctx,
		"SELECT entry, pointid, location_x, location_y, location_z, waittime "+
			"FROM script_waypoint ORDER BY entry, pointid")
	if err != nil {
		return fmt.Errorf("load script_waypoint: %w", err)
	}
	defer rows.Close()

	paths := make(map[uint32][]PointMove)
	points := 0
	for rows.Next() {
		var (
			entry uint32
			pm    PointMove
		)
		if err := rows.Scan(&entry, &pm.PointID, &pm.X, &pm.Y, &pm.Z, &pm.WaitTime); err != nil {
			return fmt.Errorf("scan script_waypoint: %w", err)
		}

		tmpl := m.store.Creatures.GetTemplate(entry)
		if tmpl == nil {
			m.log.Warn("waypoint for missing creature dropped",
				zap.Uint32("entry", entry), zap.Uint32("point", pm.PointID))
			continue
		}
		if tmpl.ScriptName == "" {
			m.log.Warn("waypoint for unscripted creature dropped",
				zap.Uint32("entry", entry), zap.Uint32("point", pm.PointID))
			continue
		}

		paths[entry] = append(paths[entry], pm)
		points++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read script_waypoint: %w", err)
	}

	m.pointMoves = paths
	m.log.Info("script waypoints loaded",
		zap.Int("paths", len(paths)), zap.Int("points", points))
	return nil
}

// GetPointMoveList returns a creature entry's waypoint path in point
// order, nil when the entry has none.
func (m *Mgr) GetPointMoveList(creatureEntry uint32) []PointMove {
	return m.pointMoves[creatureEntry]
}

// LoadEscortData loads the script_escort_data table. Rows referencing
// missing creatures or quests are dropped with a warning; a missing
// faction only warns since escorts can run unfactioned.
func (m *Mgr) LoadEscortData(ctx context.Context, q Querier) error {
	rows, err := q.Query(ctx,
		"SELECT creature_id, quest, escort_faction FROM script_escort_data")
	if err != nil {
		return fmt.Errorf("load script_escort_data: %w", err)
	}
	defer rows.Close()

	escorts := make(map[uint32]*EscortData)
	for rows.Next() {
		var ed EscortData
		if err := rows.Scan(&ed.CreatureID, &ed.QuestID, &ed.EscortFaction); err != nil {
			return fmt.Errorf("scan script_escort_data: %w", err)
		}

		if m.store.Creatures.GetTemplate(ed.CreatureID) == nil {
			m.log.Warn("escort data for missing creature dropped",
				zap.Uint32("entry", ed.CreatureID))
			continue
		}
		if ed.QuestID != 0 && m.store.Quests.Get(ed.QuestID) == nil {
			m.log.Warn("escort data for missing quest dropped",
				zap.Uint32("entry", ed.CreatureID), zap.Uint32("quest", ed.QuestID))
			continue
		}
		if ed.EscortFaction != 0 && !m.store.Factions.Has(ed.EscortFaction) {
			m.log.Warn("escort data uses unknown faction",
				zap.Uint32("entry", ed.CreatureID),
				zap.Uint32("faction", ed.EscortFaction))
		}

		escorts[ed.CreatureID] = &ed
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read script_escort_data: %w", err)
	}

	m.escorts = escorts
	m.log.Info("escort data loaded", zap.Int("count", len(escorts)))
	return nil
}

// GetEscortData returns a creature entry's escort binding, nil when the
// entry has none.
func (m *Mgr) GetEscortData(creatureEntry uint32) *EscortData {
	return m.escorts[creatureEntry]
}
