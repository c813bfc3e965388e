// Package document holds the state of open documents: text, selections,
// live regions, settings and the read-only flag, plus the Manager that
// tracks which document has focus.
//
// Document implements annotation.Document and Manager implements
// annotation.Workspace. Every edit made through a Document moves its
// selections and regions with the text.
//
// Documents and the Manager are driven from the editor's main goroutine and
// are not safe for concurrent use.
package document
