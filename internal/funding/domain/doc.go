// Package domain contains the pure state-transition logic for funding
// campaigns: campaign and vault initialization, contribution ledger
// accounting, the proposal lifecycle, vote switching, and the campaign
// update log.
//
// Functions in this package never touch storage or the token engine.
// Each transition takes the current record values, returns the next
// values or an error, and leaves persistence and atomicity to the
// caller. The execution host guarantees that every operation either
// commits all of its mutations or none of them.
package domain
