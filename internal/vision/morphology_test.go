package vision

import (
	"image"
	"testing"
)

func TestStructuringElement_Offsets(t *testing.T) {
	tests := []struct {
		element StructuringElement
		want    int
	}{
		{StructuringElement{Shape: ShapeCross, Size: 3}, 5},
		{StructuringElement{Shape: ShapeRect, Size: 3}, 9},
		{StructuringElement{Shape: ShapeCross, Size: 5}, 9},
		{StructuringElement{Shape: ShapeRect, Size: 1}, 1},
	}
	for _, tt := range tests {
		if got := len(tt.element.Offsets()); got != tt.want {
			t.Errorf("%s/%d: expected %d offsets, got %d", tt.element.Shape, tt.element.Size, tt.want, got)
		}
	}
}

func TestStructuringElement_Validate(t *testing.T) {
	invalid := []StructuringElement{
		{Shape: ShapeCross, Size: 0},
		{Shape: ShapeCross, Size: 4},
		{Shape: "diamond", Size: 3},
	}
	for _, e := range invalid {
		if err := e.Validate(); err == nil {
			t.Errorf("Expected error for %+v", e)
		}
	}
}

func TestMorphology_CrossDilate(t *testing.T) {
	src := newMask(9, 9, func(x, y int) bool { return x == 4 && y == 4 })
	cross := StructuringElement{Shape: ShapeCross, Size: 3}

	out, err := morphology(src, Dilate, cross, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := countForeground(out); got != 5 {
		t.Errorf("Expected 5 pixels after one cross dilation, got %d", got)
	}
	if out.GrayAt(5, 5).Y != 0 {
		t.Error("Diagonal neighbour must stay background for a cross element")
	}

	out, err = morphology(src, Dilate, cross, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := countForeground(out); got != 13 {
		t.Errorf("Expected 13 pixels after two cross dilations, got %d", got)
	}
}

func TestMorphology_CrossErode(t *testing.T) {
	src := newMask(20, 20, rect(10, 10, 13, 13))
	out, err := morphology(src, Erode, StructuringElement{Shape: ShapeCross, Size: 3}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := countForeground(out); got != 1 || out.GrayAt(11, 11).Y != 255 {
		t.Errorf("Expected only the block centre to survive, got %d pixels", got)
	}
}

func TestMorphology_BorderIgnored(t *testing.T) {
	src := uniform(6, 6, 255)
	out, err := morphology(src, Erode, StructuringElement{Shape: ShapeRect, Size: 3}, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := countForeground(out); got != 36 {
		t.Errorf("Expected erosion to leave a full image untouched, got %d pixels", got)
	}
}

func TestMorphology_ZeroIterationsCopies(t *testing.T) {
	src := newMask(5, 5, rect(1, 1, 3, 3))
	out, err := morphology(src, Dilate, StructuringElement{Shape: ShapeCross, Size: 3}, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out == src {
		t.Error("Expected a copy, got the source image")
	}
	if countForeground(out) != countForeground(src) {
		t.Error("Zero iterations must not change the image")
	}
}

func TestMorphology_Errors(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	if _, err := morphology(src, "open", StructuringElement{Shape: ShapeCross, Size: 3}, 1); err == nil {
		t.Error("Expected error for unknown op")
	}
	if _, err := morphology(src, Erode, StructuringElement{Shape: ShapeCross, Size: 3}, -1); err == nil {
		t.Error("Expected error for negative iterations")
	}
}
