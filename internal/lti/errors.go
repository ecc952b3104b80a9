package lti

import "errors"

var (
	// ErrDimensionMismatch indicates matrices that do not form a state-space realization.
	ErrDimensionMismatch = errors.New("lti: inconsistent state-space dimensions")

	// ErrPartition indicates ncon or nmeas outside the plant's channel counts.
	ErrPartition = errors.New("lti: invalid channel partition")

	// ErrIllPosed indicates I - D22*DK is singular, so the loop is not well posed.
	ErrIllPosed = errors.New("lti: feedback interconnection is ill-posed")

	// ErrNoExogenous indicates a plant without disturbance or performance channels.
	ErrNoExogenous = errors.New("lti: plant has no exogenous channels")
)
