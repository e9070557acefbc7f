// Package module holds the module contract and the bootstrap registry that
// lets modules find each other's ports
package module

import (
	phttp "langid/internal/platform/net/http"
)

// Module is what modkit mounts. Ports returns the module's own port struct
// or interface; PortsOf and PortsAs read it back out
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	Ports() any
}
