// Package serialization reads and writes tensors in the SafeTensors format.
//
// SafeTensors is the de facto interchange format for tensors:
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, space padded to 8 bytes]
//	  [Tensor data: raw little-endian bytes]
//
// Each header entry maps a tensor name to its dtype, shape and byte range
// inside the data section; the reserved "__metadata__" entry carries string
// metadata. The reader validates names, offsets and sizes before it copies
// any tensor data.
//
// Example usage:
//
//	// Save a batch of crops
//	err := serialization.WriteSafeTensorsFile("crops.safetensors",
//	    map[string]*tensor.RawTensor{"crops": crops.Raw()},
//	    map[string]string{"method": "bilinear"})
//
//	// Load it back
//	tensors, metadata, err := serialization.ReadSafeTensorsFile("crops.safetensors")
package serialization
