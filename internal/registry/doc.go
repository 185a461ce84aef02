// Package registry resolves component declarations into the import table the
// code generator emits from. It lists the component files of a directory,
// folds one Contribution per file into a Table of type name to capacity, and
// maps every type to the module path generated code imports it from.
package registry
