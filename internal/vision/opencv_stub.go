//go:build !gocv
// +build !gocv

package vision

import "errors"

// NewOpenCVPrimitives returns an error when built without the gocv tag.
func NewOpenCVPrimitives() (Primitives, error) {
	return nil, errors.New("gocv build tag is not enabled")
}
