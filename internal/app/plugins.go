package app

import (
	"github.com/specialistvlad/spacenavgo/internal/registry"
	"github.com/specialistvlad/spacenavgo/modules/spacenav"
)

// corePlugins is the definitive list of all plugins that are compiled into
// the spacenavgo binary.
var corePlugins = []registry.Plugin{
	spacenav.Plugin{},
}
