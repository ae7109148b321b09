// Package sprite maps named grid regions of a sprite sheet to drawable
// references. Frames are 1-based, matching how the game addresses them.
package sprite

// Region describes one named strip of equally sized frames.
type Region struct {
	OffsetX, OffsetY int      // Pixel offset of the first frame in the sheet
	GridX, GridY     int      // Frame size in sprite pixels
	Colors           []string // Hex colour per frame column, cycled
	Mask             []string // Optional silhouette; '.' and ' ' are empty
	FrameMasks       map[int][]string
	Palette          map[byte]string // Mask letters other than '#'
	Mirrored         map[int]bool    // Frame columns drawn mirrored
}

// Sheet is a set of named regions.
type Sheet struct {
	Name    string
	Regions map[string]Region
}

// Ref is a resolved frame: where it lives in the sheet and how the renderer
// should paint it.
type Ref struct {
	Sheet   string
	Name    string
	FrameX  int
	FrameY  int
	SrcX    int // Source rectangle in sheet pixels
	SrcY    int
	W, H    int
	Color   string
	Mask    []string
	Palette map[byte]string
	Mirror  bool
}

// Valid reports whether the reference points at a real region.
func (r Ref) Valid() bool {
	return r.W > 0 && r.H > 0
}

// Get resolves a frame of the named region. frames holds the 1-based x and
// optional y frame index; missing or non-positive indices mean 1. Unknown
// names yield an invalid Ref which renderers skip.
func (s *Sheet) Get(name string, frames ...int) Ref {
	region, ok := s.Regions[name]
	if !ok {
		return Ref{Sheet: s.Name, Name: name}
	}

	fx, fy := 1, 1
	if len(frames) > 0 && frames[0] > 0 {
		fx = frames[0]
	}
	if len(frames) > 1 && frames[1] > 0 {
		fy = frames[1]
	}

	ref := Ref{
		Sheet:   s.Name,
		Name:    name,
		FrameX:  fx,
		FrameY:  fy,
		SrcX:    region.GridX*(fx-1) + region.OffsetX,
		SrcY:    region.GridY*(fy-1) + region.OffsetY,
		W:       region.GridX,
		H:       region.GridY,
		Mask:    region.Mask,
		Palette: region.Palette,
		Mirror:  region.Mirrored[fx],
	}
	if m, ok := region.FrameMasks[fx]; ok {
		ref.Mask = m
	}
	if n := len(region.Colors); n > 0 {
		ref.Color = region.Colors[(fx-1+fy-1)%n]
	}
	return ref
}
