package sprite

// evenFrames marks frame columns 2, 4, ... n as mirrored.
func evenFrames(n int) map[int]bool {
	m := make(map[int]bool, n/2)
	for i := 2; i <= n; i += 2 {
		m[i] = true
	}
	return m
}

var subMask = []string{
	"........",
	".....#..",
	"....###.",
	".######.",
	"##wwwww#",
	"########",
	".######.",
	"........",
}

var subCoverMask = []string{
	"........",
	"........",
	"........",
	"........",
	"..ww.ww.",
	"........",
	"........",
	"........",
}

var missileMask = []string{
	"........",
	"........",
	".#####..",
	"#######o",
	".#####..",
	"........",
	"........",
	"........",
}

var impactMask = []string{
	"........",
	"..#..#..",
	"...##...",
	".######.",
	"...##...",
	"..#..#..",
	"........",
	"........",
}

var fishMask = []string{
	"........",
	"..####.#",
	".w######",
	"t#######",
	".#######",
	"..####.#",
	"........",
	"........",
}

var giantFishMask = []string{
	"..####..",
	".######.",
	"w#######",
	"tt######",
	"tt######",
	"########",
	".######.",
	"..######",
	"...####.",
	"....###.",
	".....##.",
	"......#.",
}

var heartMask = []string{
	".##.##.",
	"#######",
	"#######",
	".#####.",
	"..###..",
	"...#...",
}

var borderMask = []string{
	"######",
	"#....#",
	"#....#",
	"#....#",
	"#....#",
	"#....#",
	"#....#",
	"#....#",
	"#....#",
	"######",
}

// Underwater holds the submarine, missile, pipe and fish strips.
func Underwater() *Sheet {
	return &Sheet{
		Name: "underwater",
		Regions: map[string]Region{
			"submarine": {
				OffsetX: 0, OffsetY: 0, GridX: 32, GridY: 32,
				Colors: []string{
					"#e8c547", "#e8c547", // Normal
					"#ffffff", "#ffffff", // Fish hit flash
					"#b5651d", "#b5651d", // Damaged
					"#ffffff", "#ffffff", // Flash cover
					"#e8c547", "#e8c547", // Cover
				},
				Mask:       subMask,
				FrameMasks: map[int][]string{7: subCoverMask, 8: subCoverMask, 9: subCoverMask, 10: subCoverMask},
				Palette:    map[byte]string{'w': "#9fd8e8"},
				Mirrored:   evenFrames(10),
			},
			"missile": {
				OffsetX: 0, OffsetY: 64, GridX: 16, GridY: 16,
				Colors:     []string{"#c0c0c0", "#c0c0c0", "#ff8c00"},
				Mask:       missileMask,
				FrameMasks: map[int][]string{3: impactMask},
				Palette:    map[byte]string{'o': "#ff4500"},
				Mirrored:   evenFrames(2),
			},
			"pipe": {
				OffsetX: 0, OffsetY: 32, GridX: 32, GridY: 16,
				Colors: []string{"#6b6b6b", "#7a7a7a", "#858585", "#7a7a7a", "#6b6b6b", "#3d3d3d"},
			},
			"fish1": {
				OffsetX: 0, OffsetY: 96, GridX: 32, GridY: 16,
				Colors:   []string{"#ff6f59", "#ff6f59", "#ff8f79", "#ff8f79", "#ffffff", "#ffffff"},
				Mask:     fishMask,
				Palette:  map[byte]string{'w': "#ffffff", 't': "#f4f1de"},
				Mirrored: evenFrames(6),
			},
			"fish2": {
				OffsetX: 0, OffsetY: 112, GridX: 64, GridY: 32,
				Colors:   []string{"#c0392b", "#c0392b", "#d35446", "#d35446", "#ffffff", "#ffffff"},
				Mask:     fishMask,
				Palette:  map[byte]string{'w': "#ffffff", 't': "#f4f1de"},
				Mirrored: evenFrames(6),
			},
			"fish3": {
				OffsetX: 0, OffsetY: 144, GridX: 64, GridY: 248,
				Colors:  []string{"#5c2a4d"},
				Mask:    giantFishMask,
				Palette: map[byte]string{'w': "#ffffff", 't': "#f4f1de"},
			},
		},
	}
}

// UI holds hearts, banners and the character select border.
func UI() *Sheet {
	return &Sheet{
		Name: "ui",
		Regions: map[string]Region{
			"heart":   {OffsetX: 0, OffsetY: 0, GridX: 8, GridY: 8, Colors: []string{"#e63946", "#4a4a4a"}, Mask: heartMask},
			"text":    {OffsetX: 0, OffsetY: 8, GridX: 72, GridY: 16, Colors: []string{"#7a1c1c", "#1c7a3a"}},
			"cause":   {OffsetX: 0, OffsetY: 40, GridX: 100, GridY: 8, Colors: []string{"#222034"}},
			"score":   {OffsetX: 0, OffsetY: 56, GridX: 100, GridY: 8, Colors: []string{"#222034"}},
			"numbers": {OffsetX: 0, OffsetY: 64, GridX: 4, GridY: 8, Colors: []string{"#ffffff"}},
			"lines":   {OffsetX: 0, OffsetY: 72, GridX: 100, GridY: 8, Colors: []string{"#bbbbbb"}},
			"border":  {OffsetX: 0, OffsetY: 80, GridX: 24, GridY: 40, Colors: []string{"#ffffff", "#5a5a5a"}, Mask: borderMask},
		},
	}
}

// Start holds the start button and its flooded decay frames (frameY 1..4).
func Start() *Sheet {
	return &Sheet{
		Name: "start",
		Regions: map[string]Region{
			"button": {OffsetX: 0, OffsetY: 0, GridX: 52, GridY: 18, Colors: []string{"#d62828", "#a83232", "#7a3b3b", "#5a4a3a"}},
		},
	}
}

// characterSchemes are the skin and hair colours, characterBodies the shirt
// colours. Character n (1..4) combines scheme (n-1)%2 with body (n-1)/2.
var (
	characterSchemes = [][2]string{
		{"#492b19", "#000000"},
		{"#b09e8f", "#402b20"},
	}
	characterBodies = []string{"#4a90d9", "#d94a8c"}
)

var walkingMask = []string{
	".hh.",
	".ss.",
	"s##s",
	".##.",
	".##.",
	".ll.",
	".l.l",
	".l.l",
}

var swimmingMask = []string{
	"........",
	"........",
	"........",
	"l####sh.",
	"l####s..",
	"........",
	"........",
	"........",
}

// Characters is the number of selectable characters.
const Characters = 4

// Character builds the walking and swimming strips for character n (1..4).
// Out of range values wrap.
func Character(n int) *Sheet {
	if n < 1 {
		n = 1
	}
	idx := (n - 1) % Characters
	scheme := characterSchemes[idx%2]
	body := characterBodies[idx/2]
	palette := map[byte]string{'s': scheme[0], 'h': scheme[1], 'l': "#2f3e5c"}

	return &Sheet{
		Name: "character",
		Regions: map[string]Region{
			"walking": {
				OffsetX: 0, OffsetY: 0, GridX: 16, GridY: 32,
				Colors:  []string{body},
				Mask:    walkingMask,
				Palette: palette,
			},
			"swimming": {
				OffsetX: 0, OffsetY: 32, GridX: 32, GridY: 32,
				Colors:   []string{body},
				Mask:     swimmingMask,
				Palette:  palette,
				Mirrored: map[int]bool{2: true},
			},
		},
	}
}
