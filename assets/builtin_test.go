package assets

import "testing"

func TestMaskShapesLeaveCornersProtected(t *testing.T) {
	for i := 0; i < MaskCount; i++ {
		img, err := Mask(i, 120, 60)
		if err != nil {
			t.Fatalf("Mask(%d): %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 60 {
			t.Fatalf("Mask(%d) bounds %v", i, b)
		}
		if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
			t.Errorf("mask %s: corner should be protected", MaskNames[i])
		}
		if _, _, _, a := img.At(60, 35).RGBA(); a == 0 {
			t.Errorf("mask %s: centre should be paintable", MaskNames[i])
		}
	}
}

func TestMaskRejectsUnknownIndex(t *testing.T) {
	if _, err := Mask(MaskCount, 10, 10); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Mask(0, 0, 10); err == nil {
		t.Fatal("expected size error")
	}
}

func TestBackgroundIsOpaqueAndCached(t *testing.T) {
	a, err := Background(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{0, 0}, {63, 31}, {20, 10}} {
		if _, _, _, al := a.At(p[0], p[1]).RGBA(); al != 0xffff {
			t.Fatalf("pixel %v not opaque", p)
		}
	}
	b, _ := Background(64, 32)
	if a != b {
		t.Fatal("expected cached image for identical size")
	}
}
