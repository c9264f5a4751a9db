// Package levels implements the flat-file level store.
//
// Every level is one JSON document in the levels directory, named after its
// id through a filename template (level_{{id}}.json by default, with the id
// zero-padded to two digits). The file name is the only index: listing reads
// and parses every *.json file on each call, and saving a document always
// rewrites the file matching its id.
//
// Writes go through a temporary file that is renamed into place, so
// concurrent readers see either the previous or the new document.
//
// Files that cannot be parsed are left alone and skipped by List; a
// CorruptHandler and the directory Watcher make them visible to operators.
package levels
