// Package kernel provides the shared value objects of the freight domain.
//
// The package includes:
//   - UUID: identifier for shipments and legs
//   - Address: a normalized postal address with contact details and site flags
//   - Dimensions: package measurements held in metric units with imperial views
//   - business day helpers used to chain leg pickup and delivery dates
//
// All values are immutable once constructed and safe for concurrent use.
package kernel
