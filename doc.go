// Package dca simulates a dollar-cost averaging strategy over the price
// history of a fixed list of securities.
//
// The main parts are:
//   - Market Data: a normalized table of daily close prices, cash dividends
//     and stock splits for a set of symbols ([MarketData]). It is built from a
//     [Provider], either the eodhd.com API or a JSONL [Snapshot].
//   - Event Extraction: the buy days, one per period ([BuyDays]), and the days
//     with a dividend or a split ([ActionDays]).
//   - Simulation: a single chronological pass over those days that buys a
//     fixed amount of every symbol each period, reinvests dividends at the
//     close and applies splits to the share count ([Simulate]).
//
// The result gives, for each symbol, the final value, the return on
// investment and the compound annual growth rate. Presentation is left to a
// [Reporter]; the simulation itself has no side effect.
//
// This package serves as the foundational logic for the `dca` command-line
// tool.
package dca
