package app

import (
	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/modules/clock"
	"github.com/vk/caproute/modules/greeter"
)

// coreModules is the definitive list of all modules that are compiled into
// the caproute binary.
var coreModules = []catalog.Module{
	&greeter.Module{},
	&clock.Module{},
}
