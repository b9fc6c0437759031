// Package dangerousgoods holds the regulatory reference data used to classify
// hazardous cargo and the documents produced for it.
//
// A Classification is looked up by its Key (UN number, packing group, proper
// shipping name) and is never modified by the compliance engine. Cutoffs are
// maximum declared quantities per shipping tier; a zero cutoff means the tier is
// not available for that substance.
package dangerousgoods
