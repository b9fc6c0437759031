// Package compliance classifies dangerous goods packages and narrows the carrier
// candidate set accordingly.
//
// One algorithm serves both air and ground transport; the differences live in a
// Rules value built by AirRules or GroundRules:
//   - the ordered quantity tiers read from the classification record
//   - whether a ground-exempt record short-circuits classification
//   - the carrier-specific rule evaluated once per remaining candidate
//
// Each package moves through Unclassified -> PreProcessed -> Classified and ends
// Forbidden or Accepted. Classification and packaging violations are terminal;
// nothing is retried.
package compliance
