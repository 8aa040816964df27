// Package networth tracks the value of a personal portfolio over time.
//
// A Portfolio is a named collection of holdings, each an asset or a liability
// of a given subcategory (account, fund, stock or real estate) denominated in
// its own currency. Every successful purchase adds a dated Snapshot to the
// holding's Timeline; snapshots are never modified, and valuation on any day
// uses the most recent snapshot on or before that day.
//
// The core functionalities include:
//   - Purchases: validated against the holding's subcategory rules, with every
//     violation reported at once in a *ValidationError.
//   - Valuation: holding and portfolio balances on any day, converted into the
//     portfolio currency with a RateProvider.
//   - Breakdown: the share of each subcategory in the total balance.
//   - Persistence: a versioned JSON record replayed through the same
//     validation when decoded.
//
// This package serves as the foundational logic for the `nw` command-line
// tool. Rate sources live in the forex package, reports in renderer.
package networth
