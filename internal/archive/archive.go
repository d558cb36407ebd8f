// Package archive packages a generated material as a zip file.
//
// The layout is one folder named after the material holding
// <name>_<kind>.<ext> for every map plus a material_info.json description.
package archive

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/kiesman99/pbrtex/internal/pipeline"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// Generator is recorded in material_info.json
const Generator = "pbrtex"

// InfoFile is the name of the description stored next to the maps
const InfoFile = "material_info.json"

// Material is a named generation result
type Material struct {
	Name    string
	Created time.Time
	Result  *pipeline.Result
}

// NewName derives a material name from its creation time
func NewName(t time.Time) string {
	return "Material_" + t.UTC().Format("20060102T150405")
}

// LuminanceStats summarizes the albedo map
type LuminanceStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Info is the content of material_info.json
type Info struct {
	Name         string               `json:"name"`
	Created      time.Time            `json:"created"`
	Generator    string               `json:"generator"`
	Textures     []texture.Kind       `json:"textures"`
	Settings     texture.Settings     `json:"settings"`
	Tiling       texture.TilingReport `json:"tiling,omitempty"`
	AverageColor string               `json:"averageColor,omitempty"`
	Luminance    *LuminanceStats      `json:"luminance,omitempty"`
}

// Describe builds the material_info.json content for m
func Describe(m Material) Info {
	info := Info{
		Name:      m.Name,
		Created:   m.Created.UTC(),
		Generator: Generator,
		Settings:  m.Result.Settings,
		Tiling:    m.Result.Tiling,
	}
	for _, kind := range texture.Kinds {
		if _, ok := m.Result.Textures[kind]; ok {
			info.Textures = append(info.Textures, kind)
		}
	}

	if albedo := m.Result.Maps[texture.Albedo]; albedo != nil && albedo.Width*albedo.Height > 0 {
		info.AverageColor = AverageColor(albedo).Hex()
		info.Luminance = measureLuminance(albedo)
	}
	return info
}

// AverageColor returns the mean color of buf, averaged in linear RGB
func AverageColor(buf *texture.Buffer) colorful.Color {
	n := buf.Width * buf.Height
	if n == 0 {
		return colorful.Color{}
	}
	var sum colorful.Color
	for i := 0; i < len(buf.Pix); i += 4 {
		c := colorful.Color{
			R: float64(buf.Pix[i]) / 255,
			G: float64(buf.Pix[i+1]) / 255,
			B: float64(buf.Pix[i+2]) / 255,
		}
		r, g, b := c.LinearRgb()
		sum.R += r
		sum.G += g
		sum.B += b
	}
	return colorful.LinearRgb(sum.R/float64(n), sum.G/float64(n), sum.B/float64(n)).Clamped()
}

func measureLuminance(buf *texture.Buffer) *LuminanceStats {
	lum := buf.LuminanceMap()
	mean, std := stat.MeanStdDev(lum, nil)
	lo, hi := lum[0], lum[0]
	for _, v := range lum[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return &LuminanceStats{Mean: mean, StdDev: std, Min: lo, Max: hi}
}

// FileName returns the archive member name for one map
func FileName(name string, kind texture.Kind, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, kind, ext)
}

// Write streams m as a zip archive to w. ext is the extension of the
// encoded textures.
func Write(w io.Writer, m Material, ext string) error {
	if m.Result == nil {
		return errors.New("archive: material has no result")
	}
	if m.Name == "" {
		return errors.New("archive: material has no name")
	}

	zw := zip.NewWriter(w)
	for _, kind := range texture.Kinds {
		data, ok := m.Result.Textures[kind]
		if !ok {
			continue
		}
		if err := writeMember(zw, path.Join(m.Name, FileName(m.Name, kind, ext)), m.Created, data); err != nil {
			return err
		}
	}

	info, err := json.MarshalIndent(Describe(m), "", "  ")
	if err != nil {
		return fmt.Errorf("archive: encode %s: %w", InfoFile, err)
	}
	if err := writeMember(zw, path.Join(m.Name, InfoFile), m.Created, info); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finish zip: %w", err)
	}
	return nil
}

func writeMember(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	// Encoded images are already compressed
	method := zip.Store
	if path.Ext(name) == ".json" {
		method = zip.Deflate
	}
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: modified})
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	return nil
}
