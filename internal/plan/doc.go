// Package plan resolves and applies copy plans between two struct types.
//
// Resolution of every target field, highest priority first:
//  1. Profile renames (121, then fields)
//  2. Ignores (profile, option, `copy:"-"` tag)
//  3. Target tag `copy:"SourceName"`
//  4. Exact name
//  5. Loose name (normalized identifiers), when enabled
//  6. Profile default
//
// Target fields without a source are reported with ranked suggestions.
// A resolved Plan is immutable and safe for concurrent use.
package plan
