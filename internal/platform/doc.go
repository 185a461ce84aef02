// Package platform provides the filesystem operations behind artifact
// output: line-ending-insensitive comparison, write-if-changed, and atomic
// replacement through a temporary file. Permission changes are a no-op on
// Windows, which has no Unix permission bits.
package platform
