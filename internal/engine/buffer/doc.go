// Package buffer provides the text buffer that backs an annotated document,
// together with the byte offset, range and edit types shared by the rest of
// the engine.
//
// Offsets are byte positions into the buffer text. Ranges are half-open
// [Start, End) and are kept normalized (Start <= End) by every constructor
// in this package.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Range predicates follow the region semantics editors use for highlighted
// spans:
//
//   - ContainsRange is inclusive at both ends, so a range contains itself.
//   - Intersects is true when the ranges are equal or when either range has
//     an endpoint strictly inside the other. Ranges that only touch at an
//     endpoint do not intersect.
//
// A Buffer is not safe for concurrent use; the editor drives it from a single
// goroutine.
package buffer
