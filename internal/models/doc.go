// Package models defines the core domain models for splitledger.
//
// # Persisted models
//
//   - User: a registered account; every participant is a user
//   - Group: a set of members sharing expenses
//   - Expense: one payment made by a member on behalf of the group
//   - ExpenseSplit: one member's share of an expense
//   - Settlement: a direct payment between two members that reduces their mutual debt
//
// Balances, settlement suggestions and net positions are derived on every
// request by package ledger and are never stored.
//
// # Design Principles
//
// 1. Relationships use ID strings, never pointers
// 2. Timestamps are Unix seconds
// 3. Amounts are float64 currency units; writes are validated to whole cents
package models
