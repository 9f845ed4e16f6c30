// Package artifact turns forensic artifact files into evidence entries.
//
// A Parser handles one file format: it identifies files by their leading
// bytes and extracts a lazy sequence of Entry values. Parsers register
// through Register and files are matched through Detect; the built-in
// parsers cover UTF-8 text logs and newline-delimited JSON event streams.
// Binary formats (EVTX, MFT, registry hives, PE, PDF) plug in through the
// same interface.
//
// FileInfo computes the size and MD5/SHA1/SHA256 digests recorded for every
// uploaded file.
package artifact
