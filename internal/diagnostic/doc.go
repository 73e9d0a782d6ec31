// Package diagnostic collects structured errors, warnings and notes produced
// while resolving copy plans.
//
// Typical entries:
//   - unmapped target fields, with ranked suggestions
//   - ignored fields and the rule that ignored them
//   - lossy scalar conversions selected through categories
package diagnostic
