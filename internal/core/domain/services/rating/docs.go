// Package rating turns a raw shipment request into a normalized request and the
// set of carriers that may quote it.
//
// Filters run in a fixed order and only ever remove candidates:
//
//  1. mode
//  2. address (normalization, city aliases, international and remote flags)
//  3. package (catalog lookup, unit conversion, per-package limits, allowed carriers)
//  4. total weight
//  5. carrier options
//  6. dangerous goods capability
package rating
