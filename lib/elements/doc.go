// Package elements provides element types that implement the delegated
// serialization contract of package vector (Serialize, DeSerialize,
// SkipDeSerialize) and can be stored in a PointerVector.
package elements
