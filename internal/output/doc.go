// Package output delivers rendered semconvert documents.
//
// [StreamWriter] copies a document to standard output. [FileWriter]
// atomically replaces a file and skips writes that would not change it.
// [New] picks one from an -o style path.
package output
