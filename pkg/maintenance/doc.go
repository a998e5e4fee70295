// Package maintenance runs the scheduled background jobs: flagging
// documents whose review date has passed and pruning old audit records.
package maintenance
