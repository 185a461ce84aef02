// Package compiler drives one compgen run: it discovers component files,
// scans each into a contribution, folds the contributions into the import
// table, and renders both artifacts into an in-memory Plan. Only a complete
// Plan is ever committed to disk, so a run that fails while scanning leaves
// the previously generated files untouched.
package compiler
