// Package serialization provides the binary file format for saving and
// loading network snapshots.
//
// The format is a private, little-endian layout with no padding:
//
//	Format Structure:
//	  [4 bytes: Version tag (uint32), FormatVersion]
//	  [8 bytes each: input width, hidden layers, hidden width, output width (uint64)]
//	  [4 bytes: Learning rate (float32)]
//	  [Sequences: layers, weight rows, biases, errors]
//	  [32 bytes: SHA-256 of everything above]
//
// Every sequence is a uint64 length followed by that many float32 values.
// Layers are written input first; weight matrices are flattened row by row,
// matrix by matrix.
//
// The version tag is checked before any other field is read. A file carrying
// any other tag is rejected with ErrUnsupportedVersion; there is no migration
// between versions.
//
// Example usage:
//
//	// Save a network
//	if err := serialization.Save("snn_data", net.Snapshot()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	snapshot, err := serialization.Load("snn_data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	net, err := snn.NewFromSnapshot(snapshot)
package serialization
