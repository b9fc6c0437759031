// Package shipment provides the Shipment aggregate root and the values exchanged
// with carriers while a shipment is rated and booked.
//
// The package includes:
//   - Request: the normalized shipment input, copied per leg by the orchestration strategies
//   - Package and DangerousGood: the physical items and their regulatory attributes
//   - LegRequest, LegResult and Quote: the carrier-facing units of work and their answers
//   - Leg: one carrier-serviced segment with its own status machine
//   - Shipment: the aggregate of one to three legs and their summed totals
//
// Key business rules:
//   - A shipment has exactly one main leg and at most one pickup and one delivery leg
//   - Leg status follows Pending -> Booked or Pending -> OnHold
//   - Every leg keeps both pre-markup and marked-up amounts
package shipment
