// Package metadata resolves the metadata modules of an image from its tag indexed element store.
//
// An element store is read through a ValueAccessor. Two implementations are provided: a
// DataSetAccessor over a DataSet parsed from a DICOM Part 10 file, and an ObjectAccessor over an
// object of the DICOM JSON model. Resolve maps a module Name and an accessor to a freshly built
// Module; attributes missing from the store are nil in the module. Resolution holds no state, so
// an accessor may be shared by concurrent calls as long as its store is not modified.
//
// Lookup tables (ResolveLUTs) and overlay planes (DecodeOverlays) are reconstructed from their
// descriptor, data and repeating group elements. Provider adds the lookup of an accessor by image
// id on top of Resolve.
package metadata
