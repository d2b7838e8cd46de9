// Package fileheader handles parsing of the Ogawa file header.
//
// The file header is the entry point of every Ogawa archive. It occupies the
// first 16 bytes of the file and locates the archive's top group.
//
// # Layout
//
//	Offset  Size  Description
//	0       5     Magic "Ogawa"
//	5       1     Frozen flag (0xff once the writer has finished)
//	6       2     Format version, big-endian (only 1 is defined)
//	8       8     Address of the top group, little-endian
//
// A file that is still being written carries a zero frozen flag. Such files
// can be read, but their top group address may not be final.
//
// # Usage
//
//	h, err := fileheader.Read(reader)
//	if errors.Is(err, errs.ErrUnsupportedVersion) {
//	    // newer format
//	}
//	root, err := chunk.ReadRoot(reader, h.RootAddress)
//
// # Errors
//
//   - errs.ErrCorrupt: missing magic or truncated header
//   - errs.ErrUnsupportedVersion: version other than [Version]
package fileheader
