package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed forests: containment cycles,
	// nodes with more than one container, dangling or absent node ids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStrategyContractViolation is matched by every StrategyError.
	ErrStrategyContractViolation = errors.New("strategy contract violation")

	// ErrResourcePairing is returned when the resource pairing fails. No
	// partial comparison is produced in that case.
	ErrResourcePairing = errors.New("resource pairing failed")
)

// StrategyError carries a failure raised by an equality or ignore strategy.
// It unwraps to the original error and also satisfies
// errors.Is(err, ErrStrategyContractViolation).
type StrategyError struct {
	Strategy string
	Left     NodeID
	Right    NodeID
	Err      error
}

func (e *StrategyError) Error() string {
	switch {
	case e.Right == NoNode:
		return fmt.Sprintf("%s strategy failed on node %d: %v", e.Strategy, e.Left, e.Err)
	case e.Left == NoNode:
		return fmt.Sprintf("%s strategy failed on node %d: %v", e.Strategy, e.Right, e.Err)
	default:
		return fmt.Sprintf("%s strategy failed on nodes (%d, %d): %v", e.Strategy, e.Left, e.Right, e.Err)
	}
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

func (e *StrategyError) Is(target error) bool {
	return target == ErrStrategyContractViolation
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
