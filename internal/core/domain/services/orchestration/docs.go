// Package orchestration splits a booked quote into one to three carrier legs.
//
// A Strategy is chosen from the main carrier's mode, or the interline flag, and
// turns a Booking into a Plan. Strategies only read hub reference data; waybill
// reservations are taken by the Orchestrator once the legs are known and are
// released again if planning fails.
package orchestration
