// Package vision provides the pixel-level primitives used by the contour
// analysis pipeline.
//
// The package exposes a single contract, [Primitives], with two backends:
//
//   - [GoPrimitives]: pure Go, built on disintegration/imaging, bild and
//     gonum. This is the default backend and needs no cgo.
//   - OpenCVPrimitives: a gocv wrapper, compiled only with the "gocv" build
//     tag. Without the tag, [NewOpenCVPrimitives] returns an error.
//
// # Image Representation
//
// Every primitive consumes and produces *image.Gray with bounds anchored at
// (0,0). Binary masks use 0 for background and 255 for foreground.
//
// # Coordinate System
//
// Contours are ordered slices of pixel centres. X increases rightward and Y
// increases downward, so a boundary traced east, then south, runs clockwise
// on screen. Area and perimeter do not depend on orientation.
//
// # Thread Safety
//
// Primitives hold no mutable state. A single instance may be shared by any
// number of goroutines as long as each call works on its own images.
package vision
