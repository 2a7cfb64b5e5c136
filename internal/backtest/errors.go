package backtest

import "errors"

// Typed errors let callers (and tests) detect failure categories with
// errors.Is instead of string matching.
var (
	// ErrEmptyInput is returned when the input series has no bars.
	ErrEmptyInput = errors.New("backtest: input series is empty")
	// ErrInsufficientBars is returned when the input series has fewer
	// bars than the strategy's lookback period requires.
	ErrInsufficientBars = errors.New("backtest: input series shorter than lookback period")
	// ErrEnterWhileInPosition is an invariant violation: EnterFunc was
	// invoked while a position was already open.
	ErrEnterWhileInPosition = errors.New("backtest: enterPosition called while already in a position")
	// ErrExitWhileNotInPosition is an invariant violation: ExitFunc was
	// invoked while no position was open.
	ErrExitWhileNotInPosition = errors.New("backtest: exitPosition called while not in a position")
	// ErrUnreachableState guards the state dispatch switch.
	ErrUnreachableState = errors.New("backtest: unreachable engine state")
)
