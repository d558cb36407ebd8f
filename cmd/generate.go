package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/pbrtex/internal/archive"
	"github.com/kiesman99/pbrtex/internal/codec"
	"github.com/kiesman99/pbrtex/internal/pipeline"
	"github.com/kiesman99/pbrtex/internal/seamless"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// envKeyReplacer maps keys like server.max-upload to PBRTEX_SERVER_MAX_UPLOAD
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

var generateCmd = &cobra.Command{
	Use:   "generate <image>",
	Short: "Generate PBR texture maps from an image",
	Long: `Generate albedo, height, normal, metallic, roughness and ambient
occlusion maps from a photograph.

Maps are written as <output>/<name>_<kind>.<ext> together with a
material_info.json description. Supported inputs are PNG, JPEG, GIF, BMP,
TIFF, WebP and TGA.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var generateKeys = []string{"resolution", "edge", "tiling", "format", "output", "name", "archive", "preview"}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("resolution", "r", pipeline.DefaultResolution, "side length of the square output maps")
	cmd.Flags().StringP("edge", "e", texture.DefaultEdgeDetection.String(), "edge detection for normal maps (sobel|scharr|prewitt|roberts|laplacian)")
	cmd.Flags().Bool("tiling", true, "make every map tile seamlessly")
	cmd.Flags().StringP("format", "f", string(codec.PNG), "output format (png|webp)")
	cmd.Flags().StringP("output", "o", "", "output directory (default: next to the source image)")
	cmd.Flags().StringP("name", "n", "", "material name (default: Material_<timestamp>)")
	cmd.Flags().BoolP("archive", "a", false, "also package the material as a zip")
	cmd.Flags().BoolP("preview", "p", false, "also write a 2x2 tiled preview of every map")
}

// bindGenerateFlags binds the flags of whichever command runs, since root
// and generate both define them
func bindGenerateFlags(cmd *cobra.Command) error {
	for _, key := range generateKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := bindGenerateFlags(cmd); err != nil {
		return err
	}

	edge, err := texture.ParseEdgeDetection(viper.GetString("edge"))
	if err != nil {
		return err
	}
	enc, err := codec.EncoderFor(viper.GetString("format"))
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Resolution:    viper.GetInt("resolution"),
		EdgeDetection: edge,
		Tiling:        viper.GetBool("tiling"),
		Encoder:       enc,
	}

	source := args[0]
	img, format, err := codec.DecodeFile(source)
	if err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %s (%s, %dx%d)\n", source, format, b.Dx(), b.Dy())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.New().Generate(ctx, img, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	created := time.Now()
	name := viper.GetString("name")
	if name == "" {
		name = archive.NewName(created)
	}
	outDir := viper.GetString("output")
	if outDir == "" {
		outDir = filepath.Dir(source)
	}
	m := archive.Material{Name: name, Created: created, Result: result}

	if err := writeMaterial(ctx, outDir, m, enc); err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), result)
	return nil
}

// writeMaterial writes every map, the info file and the optional archive
// and previews
func writeMaterial(ctx context.Context, dir string, m archive.Material, enc codec.Encoder) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, kind := range texture.Kinds {
		path := filepath.Join(dir, archive.FileName(m.Name, kind, enc.Extension()))
		if err := os.WriteFile(path, m.Result.Textures[kind], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", kind, err)
		}
	}

	info, err := json.MarshalIndent(archive.Describe(m), "", "  ")
	if err != nil {
		return fmt.Errorf("encode material info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, m.Name+"_"+archive.InfoFile), info, 0o644); err != nil {
		return fmt.Errorf("write material info: %w", err)
	}

	if viper.GetBool("archive") {
		if err := writeArchive(filepath.Join(dir, m.Name+".zip"), m, enc.Extension()); err != nil {
			return err
		}
	}

	if viper.GetBool("preview") {
		for _, kind := range texture.Kinds {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := enc.Encode(seamless.Grid(m.Result.Maps[kind], 2, 2))
			if err != nil {
				return fmt.Errorf("encode %s preview: %w", kind, err)
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%s_preview.%s", m.Name, kind, enc.Extension()))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s preview: %w", kind, err)
			}
		}
	}
	return nil
}

func writeArchive(path string, m archive.Material, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := archive.Write(f, m, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printReport(w io.Writer, result *pipeline.Result) {
	fmt.Fprintf(w, "Generated %d maps at %dx%d using %s in %s\n",
		len(result.Textures), result.Settings.Resolution, result.Settings.Resolution,
		result.Settings.EdgeDetection, result.Diagnostics.Elapsed.Round(time.Millisecond))

	if result.Tiling == nil {
		return
	}
	for _, kind := range texture.Kinds {
		entry := result.Tiling[kind]
		if entry.Failed() {
			fmt.Fprintf(w, "  %-10s untiled: %s\n", kind, entry.Error)
			continue
		}
		fmt.Fprintf(w, "  %-10s %s blend=%dpx seam=%d\n",
			kind, entry.Method, entry.BlendWidth, result.Diagnostics.SeamDeviation[kind])
	}
}
