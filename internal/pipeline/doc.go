// Package pipeline drives a scan: it enumerates candidate files, probes each
// one, applies the pixel-height filter and hands passing files to a
// [Reporter], accumulating a [RunResult] along the way.
//
// Files are handled strictly one at a time. Every enumerated file lands in
// exactly one of Passed, Failed or Errored.
package pipeline
