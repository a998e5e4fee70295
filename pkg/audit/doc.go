// Package audit maintains the append-only audit trail of registry
// mutations.
//
// Every create, update, and delete on documents, risks, controls, assets,
// and suppliers produces one audit record attributing the change to the
// acting user (taken from the request context). Recording is best-effort:
// an audit write failure is logged but never fails the mutation it
// describes. Old records are pruned by the maintenance scheduler.
package audit
