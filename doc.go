// Package fieldstore implements a persistent, content-addressed archive
// for multi-dimensional numerical fields written by a simulation at
// successive savepoints.
//
// An archive is a single directory holding one raw data file per field
// plus a JSON manifest:
//
//	<directory>/
//	  ArchiveMetaData.json   manifest: versions + field/offset table
//	  <fieldA>.dat           concatenated snapshots of fieldA
//	  <fieldB>.dat
//
// Data files carry no framing; each snapshot is located purely by the
// (offset, checksum) entry recorded in the manifest. Every snapshot is
// SHA-256 checksummed on write and verified on read, so any silent
// corruption of the data files is detected.
//
// An Archive is opened in one of three modes: ModeWrite starts a fresh
// archive in an empty directory, ModeAppend extends an existing one, and
// ModeRead provides verified read-back. The engine is single-owner: it is
// not safe for concurrent use and assumes a single writer per directory.
package fieldstore
