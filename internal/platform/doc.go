// Package platform papers over operating system differences in filesystem
// operations. On Unix it applies permission bits directly; on Windows, which
// has no Unix-style permission bits, mode changes are skipped.
package platform
