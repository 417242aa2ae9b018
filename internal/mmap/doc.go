// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps artifacts instead of reading them into a buffer,
// so Open followed by ReadAt never copies the whole file.
//
//	m, err := mmap.Open("report.json.zst")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
package mmap
