// Package analyze builds a reflect-based model of struct types.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeKind: coarse classification (basic/struct/pointer/slice/map/external)
//   - FieldInfo: exported field, its index path through embedded structs and tags
//   - StructInfo: the flattened exported fields of one struct type
//
// Struct models are computed once per reflect.Type and cached.
package analyze
