package synth

import (
	"errors"

	"ifm-synth/constraint"
)

var (
	ErrMasterInfeasible    = errors.New("synth: master problem infeasible")
	ErrBootstrapInfeasible = errors.New("synth: constraints cannot be covered by any pattern")
	ErrCoverageMismatch    = errors.New("synth: pricing indicators disagree with constraint predicate")
	ErrNoConstraints       = errors.New("synth: no constraints")

	ErrValueOutOfDomain = constraint.ErrValueOutOfDomain
	ErrUnknownAttribute = constraint.ErrUnknownAttribute
)
