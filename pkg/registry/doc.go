// Package registry holds the compliance registry domain: documents,
// risks, controls, assets, and suppliers.
//
// The Service type is the business layer. It validates entities before
// persistence, wraps every storage call in the retry policy, and records
// an audit entry for each mutation. Storage backends implement the Store
// interface and live in pkg/registry/storage.
package registry
