package haproxy

import (
	"log/slog"
	"slices"
)

// Reserved svname values of aggregate rows.
const (
	rowFrontend = "FRONTEND"
	rowBackend  = "BACKEND"
)

// Inventory lists the proxies found in a full stats dump.
type Inventory struct {
	Frontends []string
	Backends  []string
	Servers   map[string][]string // backend name -> server names, in dump order
}

// Discover classifies the rows of a full "show stat" dump. A row naming
// FRONTEND or BACKEND in any field is a frontend or backend; a row whose
// proxy is a known backend and whose svname is not BACKEND is one of its
// servers. Each discovery is logged.
func Discover(t *Table) *Inventory {
	inv := &Inventory{Servers: make(map[string][]string)}
	backends := make(map[string]bool)

	for _, row := range t.Rows {
		if slices.Contains(row, rowFrontend) {
			slog.Info("discovered frontend", "name", row[0])
			inv.Frontends = append(inv.Frontends, row[0])
		}
		if slices.Contains(row, rowBackend) {
			slog.Info("discovered backend", "name", row[0])
			inv.Backends = append(inv.Backends, row[0])
			backends[row[0]] = true
		}
	}

	for _, row := range t.Rows {
		if len(row) < 2 || !backends[row[0]] || row[1] == rowBackend {
			continue
		}
		slog.Info("discovered server", "backend", row[0], "name", row[1])
		inv.Servers[row[0]] = append(inv.Servers[row[0]], row[1])
	}

	return inv
}
