// Package extract locates and decodes data embedded in PDS products.
//
// An [Extractor] reads a product from an io.ReadSeeker and returns the
// extracted [Artifact] together with the product's label tree. The
// [ImageExtractor] handles single-band rasters of 8-bit unsigned samples
// stored in FIXED_LENGTH records:
//
//	ie := extract.NewImageExtractor(extract.DefaultConfig())
//	res, err := ie.ExtractImage(f)
//	if err != nil {
//	    return err
//	}
//	if res.Image == nil {
//	    // product carries no supported image
//	}
//	err = res.Image.Encode(out, extract.PNG)
//
// # Locating the Image
//
// The image offset comes from the ^IMAGE pointer. A bare record number is
// 1-based and multiplied by RECORD_BYTES; a value followed by <BYTES> is a
// byte offset. LINE_SAMPLES and LINES give the width and height, and an
// optional MD5_CHECKSUM is verified against the samples read.
//
// # Error Policy
//
// [Config] decides whether an unsupported encoding or a checksum mismatch
// fails the extraction with [*NotSupportedError] or [*ChecksumError], or is
// recorded in [Result.Suppressed] while no image is returned. Malformed
// pointers ([*PointerFormatError]) and non-numeric fields
// ([label.ConversionError]) always fail.
package extract
