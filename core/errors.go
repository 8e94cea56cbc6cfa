package core

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrMissingPrice    = errors.New("no price for asset")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidShock    = errors.New("shock multiplier must be positive")

	InvalidConfig = errors.New("invalid config")

	ErrUnknownProtocol    = errors.New("unknown protocol")
	ErrUnknownOracleSetup = errors.New("unknown oracle setup")
	ErrPositionNotFound   = errors.New("position not found")

	ErrNegativeInterestRate  = errors.New("negative interest rate")
	ErrOptimalUr             = errors.New("optimal utilization rate out of range")
	ErrPlateauIr             = errors.New("plateau interest rate must be positive")
	ErrMaxIr                 = errors.New("max interest rate must be positive")
	ErrPlateauGreaterThanMax = errors.New("plateau interest rate exceeds max interest rate")
)
