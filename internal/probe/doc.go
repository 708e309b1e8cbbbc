// Package probe is the boundary to the external metadata facility. A
// [Prober] turns a file path into typed tracks (General, Video, Image, ...)
// whose attributes are optional; it never guesses at values it could not
// read. Backends shell out to mediainfo or ffprobe and parse their JSON, or
// (native) combine a stat call with image header decoding.
package probe
