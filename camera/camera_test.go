package camera

import "testing"

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestViewCentersWorld(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// at 1:1 zoom the world center sits in the middle of the viewport
	v := cam.View()
	if v.OffsetX != 640-1280 || v.OffsetY != 360-720 {
		t.Errorf("unexpected view offsets (%d, %d)", v.OffsetX, v.OffsetY)
	}
	if v.Scale != 1.0 {
		t.Errorf("expected scale 1.0, got %f", v.Scale)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.Pan(2560, 0)
	if cam.X != 1280 {
		t.Errorf("expected pan by a full world width to wrap back to 1280, got %f", cam.X)
	}

	cam.Pan(-1300, 0)
	if cam.X < 0 || cam.X >= cam.WorldW {
		t.Errorf("camera X %f escaped world bounds", cam.X)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	// min zoom keeps the viewport within the world
	if cam.MinZoom != 0.5 {
		t.Errorf("expected min zoom 0.5, got %f", cam.MinZoom)
	}
}

func TestZoomByAndReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.ZoomBy(2)
	if cam.Zoom != 2.0 {
		t.Errorf("expected zoom 2.0, got %f", cam.Zoom)
	}

	cam.Pan(500, 500)
	cam.Reset()
	if cam.X != 1280 || cam.Y != 720 || cam.Zoom != 1.0 {
		t.Errorf("reset left camera at (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
