package economy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig  = errors.New("invalid build config")
	ErrInvalidAction  = errors.New("invalid build action")
	ErrNotImplemented = errors.New("not implemented")
)

type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ActionError reports an action value outside the build action space. It means
// the policy and the component disagree on the action space and is not recoverable.
type ActionError struct {
	AgentID string
	Action  int
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("invalid build action %d for agent %s", e.Action, e.AgentID)
}

func (e *ActionError) Is(target error) bool {
	return target == ErrInvalidAction
}
