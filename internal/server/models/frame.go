package models

// FrameStyle is the decorative frame drawn around a photo.
type FrameStyle string

const (
	FrameNone     FrameStyle = "none"
	FrameClassic  FrameStyle = "classic"
	FrameElegant  FrameStyle = "elegant"
	FrameVintage  FrameStyle = "vintage"
	FrameModern   FrameStyle = "modern"
	FrameGold     FrameStyle = "gold"
	FrameRainbow  FrameStyle = "rainbow"
	FramePolaroid FrameStyle = "polaroid"
)

// FrameClasses are the render hints for one frame style. Keeping the three
// class names in one table keeps outer/inner/image styling from drifting
// apart across render paths.
type FrameClasses struct {
	Outer string `json:"outer"`
	Inner string `json:"inner"`
	Image string `json:"image"`
}

var frameTable = map[FrameStyle]FrameClasses{
	FrameNone:     {Outer: "frame-none", Inner: "frame-none-inner", Image: "img-plain"},
	FrameClassic:  {Outer: "frame-classic", Inner: "frame-classic-inner", Image: "img-bordered"},
	FrameElegant:  {Outer: "frame-elegant", Inner: "frame-elegant-inner", Image: "img-bordered"},
	FrameVintage:  {Outer: "frame-vintage", Inner: "frame-vintage-inner", Image: "img-sepia"},
	FrameModern:   {Outer: "frame-modern", Inner: "frame-modern-inner", Image: "img-plain"},
	FrameGold:     {Outer: "frame-gold", Inner: "frame-gold-inner", Image: "img-bordered"},
	FrameRainbow:  {Outer: "frame-rainbow", Inner: "frame-rainbow-inner", Image: "img-bordered"},
	FramePolaroid: {Outer: "frame-polaroid", Inner: "frame-polaroid-inner", Image: "img-polaroid"},
}

// Valid reports whether f is a known frame style.
func (f FrameStyle) Valid() bool {
	_, ok := frameTable[f]
	return ok
}

// Classes returns the render classes for f, falling back to FrameNone for
// unknown values so stored legacy data never breaks the read path.
func (f FrameStyle) Classes() FrameClasses {
	if c, ok := frameTable[f]; ok {
		return c
	}
	return frameTable[FrameNone]
}
