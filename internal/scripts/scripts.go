// Package scripts holds the compiled-in hook bundles. Bundles bind by
// script name; which entities use them is decided entirely by game data.
package scripts

import "github.com/worldscript/server/internal/script"

// RegisterAll registers every compiled-in bundle with the manager. Call
// after script names are loaded and before the registry check.
func RegisterAll(m *script.Mgr) {
	registerGenericCreature(m)
	registerNpcEscort(m)
}
