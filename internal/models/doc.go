// Package models defines the core domain models for tripsplit.
//
// # Model overview
//
//   - User: a registered account (email + password login)
//   - Trip: a shared context (e.g. a vacation) containing members, expenses,
//     and settlements
//   - Member: a participant in a trip; may link to a User or be a guest
//   - Expense: money paid by one member, divided across members via ExpenseSplit
//   - Settlement: a recorded real-world payment between two members with a
//     PENDING -> CONFIRMED confirmation workflow
//   - Balance, SimplifiedDebt: derived values produced by the ledger package,
//     never persisted
//
// # Design principles
//
//  1. Relationships use ID strings, not pointers, to avoid circular references
//  2. Members are the unit of accounting; a guest member (no linked user)
//     participates in balances exactly like a registered one
//  3. Derived types (Balance, SimplifiedDebt) live here so the storage, ledger
//     and service layers share one vocabulary
package models
