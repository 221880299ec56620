package main

import "github.com/rxtech-lab/argo-crossover/internal/strategy"

// StocksLoadedMsg carries the stock ids found in the data directory.
type StocksLoadedMsg struct {
	Stocks []string
	Err    error
}

// StrategyDoneMsg carries the outcome of a strategy run.
type StrategyDoneMsg struct {
	Result *strategy.Result
	Err    error
}
