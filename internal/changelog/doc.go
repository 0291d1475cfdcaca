// Package changelog reads, splices and writes the changelog file.
//
// A changelog is split into three parts around two marker lines:
//   - TextBefore: everything up to and including the insert marker line
//   - Body: the entries, where new entries are prepended
//   - TextAfter: the end marker line and everything after it
//
// TextBefore and TextAfter are written back byte for byte. New entries are
// written with the newline style detected in the existing file.
package changelog
