package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidOdds      = errors.New("invalid american odds")
	ErrEmptyLegSet      = errors.New("empty leg set")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidBetType   = errors.New("invalid bet type")
	ErrLegCountMismatch = errors.New("leg count mismatch")
	ErrInvalidResult    = errors.New("invalid settlement result")
	ErrAlreadySettled   = errors.New("wager already settled")
	ErrUnsettledLegs    = errors.New("wager has unsettled legs")
)
