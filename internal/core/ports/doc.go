// Package ports defines the contracts between the freight core and its collaborators:
// carrier adapters, storage, reference data, hub directories, the pre-assigned
// identifier pool, event publishing and document rendering.
package ports
