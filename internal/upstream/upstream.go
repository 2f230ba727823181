// Package upstream reads the collaborator stores the progression engine
// depends on: activity, personal records, gym memberships, accounts and the
// social graph. The engine never writes to any of them.
package upstream

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps every failure of a collaborator store.
var ErrUnavailable = errors.New("upstream store unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
