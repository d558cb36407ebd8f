package texture

import (
	"fmt"
	"strings"
)

// Kind names one of the derived PBR maps
type Kind string

// Texture kinds produced by a pipeline run
const (
	Albedo    Kind = "albedo"
	Height    Kind = "height"
	Normal    Kind = "normal"
	Metallic  Kind = "metallic"
	Roughness Kind = "roughness"
	Occlusion Kind = "occlusion"
)

// Kinds lists every texture kind in output order
var Kinds = []Kind{Albedo, Height, Normal, Metallic, Roughness, Occlusion}

// Grayscale reports whether maps of this kind carry R==G==B
func (k Kind) Grayscale() bool {
	switch k {
	case Height, Metallic, Roughness, Occlusion:
		return true
	}
	return false
}

// EdgeDetection selects the gradient operator used for normal maps
type EdgeDetection int

// Edge detection operators
const (
	Sobel EdgeDetection = iota
	Scharr
	Prewitt
	Roberts
	Laplacian
)

// DefaultEdgeDetection is used when the caller does not pick one
const DefaultEdgeDetection = Sobel

var edgeNames = [...]string{
	Sobel:     "sobel",
	Scharr:    "scharr",
	Prewitt:   "prewitt",
	Roberts:   "roberts",
	Laplacian: "laplacian",
}

// EdgeDetections lists every supported operator
var EdgeDetections = []EdgeDetection{Sobel, Scharr, Prewitt, Roberts, Laplacian}

func (e EdgeDetection) String() string {
	if e.Valid() {
		return edgeNames[e]
	}
	return fmt.Sprintf("EdgeDetection(%d)", int(e))
}

// Valid reports whether e is one of the known operators
func (e EdgeDetection) Valid() bool {
	return e >= Sobel && int(e) < len(edgeNames)
}

// ParseEdgeDetection maps a user-facing name to an operator.
// An empty string selects the default.
func ParseEdgeDetection(s string) (EdgeDetection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultEdgeDetection, nil
	}
	for i, name := range edgeNames {
		if name == s {
			return EdgeDetection(i), nil
		}
	}
	return 0, fmt.Errorf("unknown edge detection %q (want one of %s)", s, strings.Join(edgeNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler
func (e EdgeDetection) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid edge detection %d", int(e))
	}
	return []byte(edgeNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *EdgeDetection) UnmarshalText(b []byte) error {
	v, err := ParseEdgeDetection(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Settings echoes the request that produced a bundle
type Settings struct {
	Resolution    int           `json:"resolution"`
	EdgeDetection EdgeDetection `json:"edgeDetection"`
	TilingEnabled bool          `json:"tilingEnabled"`
}

// Bundle maps each texture kind to its encoded image
type Bundle map[Kind][]byte

// TilingEntry is the outcome of seamless tiling for one texture.
// Exactly one of Method or Error is set.
type TilingEntry struct {
	BlendWidth int    `json:"blendWidth,omitempty"`
	Method     string `json:"method,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether tiling did not apply to the texture
func (e TilingEntry) Failed() bool {
	return e.Error != ""
}

// TilingReport holds one entry per texture when tiling ran
type TilingReport map[Kind]TilingEntry
