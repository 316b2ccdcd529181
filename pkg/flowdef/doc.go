// Package flowdef parses and validates flow definition documents.
//
// The canonical wire shape matches the documents under flows/; authored
// content in the wild diverges slightly ("pages" for
// "nodes", "to" for "next", flat strings for locale-keyed text), so the
// parser normalizes those variants into one internal representation before
// validation. A definition that fails validation is never returned.
package flowdef
