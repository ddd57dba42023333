// Package dicom provides functions and data structures for reading the DICOM file format.
// The package provides a high level and low level API for parsing the DICOM format.
// The high level API consists of functions such as Parse and ParseBytes which by default
// operate on DICOM Data Elements buffered into memory as a DataSet. The low level API
// consists of streaming interfaces like the DataElementIterator which do not require buffering
// and can operate on DataElements one at a time.
//
// The Parse function and the DataElementIterator represent the ValueField of DataElements
// differently. The Parse function by default buffers VRs of potentially enormous size
// (SQ, OX, UN, UT, UR, UC) into memory. In contrast, the DataElementIterator does not buffer these
// VRs and instead represents them as streaming interfaces. The ReferenceBulkData option keeps
// only the location of bulk data so that it can be sliced from the input bytes on demand.
//
// Construct writes a DataSet back out as a DICOM file in any of the uncompressed transfer
// syntaxes other than the deflated one.
package dicom
