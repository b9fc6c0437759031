// Package carrier models the carriers a shipment can be tendered to.
//
// The package includes:
//   - Mode: the transport mode a carrier operates (air, courier, LTL, FTL, sealift)
//   - Carrier: a catalog entry with its capabilities and per-package/per-shipment limits
//   - Catalog: an immutable lookup of carriers by code
//   - Candidates: the sorted set of carrier codes still eligible for a shipment
//
// Candidate sets only ever shrink through Filter and Intersect; callers widen them
// explicitly by starting from Catalog.Codes.
package carrier
