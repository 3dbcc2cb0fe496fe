package backend

import (
	"sync"
	"time"

	"github.com/gogpu/ggsnap/capability"
)

// Host is the software backend's capability hook table. Each slot starts
// with the live-process behavior and is replaced once the capability
// registry installs into it.
//
// There is no app-compat slot: the software backend has no compatibility
// layer, so an app-compat rule is reported as skipped.
type Host struct {
	Clock     *capability.Slot[capability.Clock]
	Inspector *capability.Slot[capability.Inspector]
	Fonts     *capability.Slot[capability.FontResolver]
	EditMode  *capability.Slot[capability.EditModeFunc]
	Matrix    *capability.Slot[capability.Matrix]
	Services  *capability.Slot[capability.ServiceLocator]
}

// NewHost returns a host with live-process fallbacks: wall-clock time, edit
// mode on, gg matrix math and no fonts, services or inspection.
func NewHost() *Host {
	return &Host{
		Clock:     capability.NewSlot[capability.Clock](capability.TimeSource, "capability.Clock", wallClock{}),
		Inspector: capability.NewSlot[capability.Inspector](capability.ViewInspection, "capability.Inspector", nil),
		Fonts:     capability.NewSlot[capability.FontResolver](capability.FontLookup, "capability.FontResolver", nil),
		EditMode:  capability.NewSlot(capability.EditMode, "capability.EditModeFunc", capability.EditModeFunc(func() bool { return true })),
		Matrix:    capability.NewSlot[capability.Matrix](capability.MatrixMath, "capability.Matrix", capability.GGMatrix{}),
		Services:  capability.NewSlot[capability.ServiceLocator](capability.ServiceLookup, "capability.ServiceLocator", capability.ServiceMap{}),
	}
}

var (
	defaultHostOnce sync.Once
	defaultHost     *Host
)

// DefaultHost returns the process-wide host. Sessions built without an
// explicit host share it, just as a hosted engine shares its static hooks.
func DefaultHost() *Host {
	defaultHostOnce.Do(func() { defaultHost = NewHost() })
	return defaultHost
}

// Hook implements capability.Host.
func (h *Host) Hook(name capability.Name) (capability.Hook, bool) {
	switch name {
	case capability.TimeSource:
		return h.Clock.Hook(), true
	case capability.ViewInspection:
		return h.Inspector.Hook(), true
	case capability.FontLookup:
		return h.Fonts.Hook(), true
	case capability.EditMode:
		return h.EditMode.Hook(), true
	case capability.MatrixMath:
		return h.Matrix.Hook(), true
	case capability.ServiceLookup:
		return h.Services.Hook(), true
	}
	return capability.Hook{}, false
}

// wallClock is the unsubstituted time source.
type wallClock struct{}

func (wallClock) NanoTime() int64 { return time.Now().UnixNano() }

func (wallClock) CurrentTimeMillis() int64 { return time.Now().UnixMilli() }
