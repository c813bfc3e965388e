// Package annotation keeps per-document comments attached to ranges of text.
//
// Each document carries an annotation set in its settings under a single
// key. Annotation ids are dense and zero-based: after every operation the
// set holds ids 0..Count()-1 with no gaps. Every annotation also has a live
// region registered with the document under "<prefix><id>"; the region moves
// with edits and is the source of truth for where the annotation is now.
//
// Store operations:
//
//   - Load refreshes stored ranges from the live regions, drops annotations
//     whose region collapsed, renumbers the survivors and persists the set.
//   - Clear drops every annotation and its region.
//   - DeleteIntersecting drops the first annotation touched by each
//     selection, then compacts via Load.
//   - Prepare classifies a selection against the current set and returns a
//     Request token for the comment prompt, or ErrOverlap.
//   - Commit writes the comment for a Request once the prompt completes.
//
// The persisted shape is
//
//	{"count": N, "annotations": {"html_annotation_0": {"range": [s, e], "hash": "...", "comment": "..."}}}
//
// and is converted to and from the typed Set only in codec.go.
package annotation
