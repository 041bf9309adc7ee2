// Package image3bit provides a 3-bit RGB image format for Sharp color memory LCDs.
//
// The 8-color Sharp memory LCDs (LS013B7DH06, LS027B7DH01 color variants and
// friends) take 3 bits per pixel, red, green and blue, streamed MSB-first.
// Pixels are packed back to back, so 8 pixels occupy exactly 3 bytes and some
// pixels straddle a byte boundary.
//
// Memory layout example for the first 8 pixels of a row:
//
//	Pixels: 0   1   2   3   4   5   6   7
//	Bits:   RGB RGB RG|B RGB RGB R|GB RGB RGB
//	Bytes:  [  byte 0  ][  byte 1  ][  byte 2  ]
//
// Pixel 2 starts at bit offset 6 of byte 0 and pixel 5 at bit offset 7 of
// byte 1; both spill into the following byte.
//
// A set bit leaves the subpixel reflective, so a buffer filled with 0xFF is
// all White, which is how the panel looks after a clear.
//
// Example usage:
//
//	// Create a 128x128 image, initially White
//	img := image3bit.NewPacked(image.Rect(0, 0, 128, 128))
//
//	// Set a pixel to red
//	img.SetColor(10, 20, image3bit.Red)
//
//	// Get a pixel
//	c := img.ColorAt(10, 20)
//	println(c.String()) // Output: Red
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image3bit.Blue), image.Point{}, draw.Src)
package image3bit
