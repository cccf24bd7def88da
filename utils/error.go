package utils

import (
	"errors"
	"fmt"

	"ifm-synth/constraint"
	"ifm-synth/synth"
	"ifm-synth/table"
)

type ServiceError struct {
	Code uint32
	Msg  string
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ServiceError: code=%d, msg=%s, err=%v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("ServiceError: code=%d, msg=%s", e.Code, e.Msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Wrap 带上原始错误，错误码不变
func (e *ServiceError) Wrap(err error) *ServiceError {
	return &ServiceError{Code: e.Code, Msg: e.Msg, Err: err}
}

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

var (
	// business error code: [500000, 600000)
	ErrOpenCsv            = &ServiceError{Code: 500001, Msg: "open csv error"}
	ErrReadCsv            = &ServiceError{Code: 500002, Msg: "read csv error"}
	ErrParameter          = &ServiceError{Code: 500005, Msg: "invalid parameter"}
	ErrColumnNotExist     = &ServiceError{Code: 500006, Msg: "column not exist"}
	ErrReadTable          = &ServiceError{Code: 500010, Msg: "read input table error"}
	ErrWriteTable         = &ServiceError{Code: 500011, Msg: "write output table error"}
	ErrValueOutOfDomain   = &ServiceError{Code: 500020, Msg: "constraint value outside attribute domain"}
	ErrBootstrap          = &ServiceError{Code: 500021, Msg: "constraints cannot be covered"}
	ErrMasterInfeasible   = &ServiceError{Code: 500022, Msg: "master problem infeasible"}
	ErrSynthesis          = &ServiceError{Code: 500023, Msg: "synthesis failed"}
	ErrConstraintDerivate = &ServiceError{Code: 500024, Msg: "derive constraints error"}
	ErrTaskNotExist       = &ServiceError{Code: 500030, Msg: "task not exist"}
)

// ToServiceError 把求解过程中的错误映射到业务错误码
func ToServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, constraint.ErrUnknownAttribute), errors.Is(err, table.ErrUnknownAttribute),
		errors.Is(err, constraint.ErrKindMismatch):
		return ErrColumnNotExist.Wrap(err)
	case errors.Is(err, constraint.ErrValueOutOfDomain):
		return ErrValueOutOfDomain.Wrap(err)
	case errors.Is(err, synth.ErrBootstrapInfeasible):
		return ErrBootstrap.Wrap(err)
	case errors.Is(err, synth.ErrNoConstraints):
		return ErrConstraintDerivate.Wrap(err)
	case errors.Is(err, synth.ErrMasterInfeasible):
		return ErrMasterInfeasible.Wrap(err)
	case errors.Is(err, table.ErrRowShape), errors.Is(err, table.ErrDuplicateAttr):
		return ErrReadTable.Wrap(err)
	default:
		return ErrSynthesis.Wrap(err)
	}
}
