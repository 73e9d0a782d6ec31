// Package match provides name normalization, edit distance, type
// compatibility scoring and candidate ranking for field matching.
//
// Key functions:
//   - NormalizeIdent: folds identifiers so customer_id and CustomerID compare equal
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores reflect.Type compatibility
//   - RankCandidates: ranks potential source fields for a target field
package match
