package capability

import (
	"errors"
	"fmt"
)

// ErrHostMismatch is returned by InstallAll when the registry was already
// installed into a different host. Its rules were applied to that host only.
var ErrHostMismatch = errors.New("capability: registry already installed into another host")

// IntegrationRequiredError reports a required capability the host does not
// expose. Nothing can render without it.
type IntegrationRequiredError struct {
	Name Name
}

func (e *IntegrationRequiredError) Error() string {
	return "capability: required integration missing: " + string(e.Name)
}

// TypeMismatchError reports a replacement of the wrong type for a hook.
type TypeMismatchError struct {
	Name Name
	Want string
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("capability: %s wants %s, got %T", e.Name, e.Want, e.Got)
}
