// Package ir defines the typed intermediate tree built by the GLSL ES
// front-end.
//
// # Types
//
// Type describes a fully resolved GLSL ES type: basic kind, precision,
// storage qualifier, layout qualifier, vector/matrix shape, array size and
// an optional Structure or InterfaceBlock. PublicType is the parser-facing
// form that accumulates qualifiers while a declaration is reduced.
//
// # Nodes
//
// The tree is a closed sum type over eight node kinds:
//
//	*Symbol         variable reference by unique ID
//	*ConstantUnion  folded compile-time value
//	*Unary          one-operand operation
//	*Binary         arithmetic, comparison, index, swizzle, assignment
//	*Aggregate      sequence, declaration, constructor, call, function
//	*Selection      if statement or ?: expression
//	*Loop           for, while, do-while
//	*Branch         return, break, continue, discard
//
// Passes dispatch with a type switch or with Walk and a Callbacks value.
//
// # Constants
//
// Constant values live in ConstantBuffer, an immutable flat view over
// scalars. Matrices are flattened column by column, structs field by
// field. Views are shared rather than copied, so a const variable and the
// node that initialized it refer to the same storage.
package ir
