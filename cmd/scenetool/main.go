// scenetool is a CLI utility for inspecting and converting scene documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/multierr"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/config"
	"github.com/Faultbox/worldsmith/internal/persistence"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "convert":
		cmdConvert(args)
	case "new":
		cmdNew(args)
	case "textures":
		cmdTextures(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scenetool - Worldsmith scene document utility

Usage:
  scenetool <command> [options]

Commands:
  info <scene>                       Show environment and object counts
  validate [-models dir] <scene>     Check every node parses (and its model loads)
  convert <in> <out>                 Re-encode a scene (.json, .yaml, .toml)
  new <out>                          Write an empty scene with default environment
  textures [-dir dir]                Check the configured ground and skybox textures

Examples:
  scenetool info scene_export.json
  scenetool validate -models assets/models scenes/forest.json
  scenetool convert scene_export.json scenes/forest.yaml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool info <scene>")
		os.Exit(1)
	}

	doc, err := persistence.ReadFile(args[0])
	if err != nil {
		fail(err)
	}

	fmt.Printf("Scene:   %s\n", args[0])
	fmt.Printf("Format:  %s\n", persistence.FormatFromPath(args[0]))
	if doc.Ground != nil {
		fmt.Printf("Ground:  %s (x%g)\n", doc.Ground.Texture, doc.Ground.Repeats)
	}
	if doc.Skybox != nil {
		fmt.Printf("Skybox:  %s\n", doc.Skybox.Texture)
	}
	if doc.Sun != nil {
		fmt.Printf("Sun:     %s intensity %g at (%g, %g)\n", doc.Sun.Color, doc.Sun.Intensity, doc.Sun.X, doc.Sun.Z)
	}
	fmt.Printf("Objects: %d\n", len(doc.Nodes))

	counts := make(map[string]int)
	for _, n := range doc.Nodes {
		counts[n.Name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > 0 {
		fmt.Println()
		fmt.Println("Objects by model:")
	}
	for _, name := range names {
		fmt.Printf("  %-16s %d\n", name, counts[name])
	}
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	models := fs.String("models", "", "Model directory; when set every referenced model must load")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool validate [-models dir] <scene>")
		os.Exit(1)
	}

	doc, err := persistence.ReadFile(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	placements, err := doc.Placements()
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, e)
		}
		os.Exit(1)
	}

	if *models != "" {
		cache := assets.NewCache(assets.NewFileLoader(*models))
		var errs error
		for i, p := range placements {
			if _, err := cache.Get(context.Background(), p.Name); err != nil {
				errs = multierr.Append(errs, &persistence.NodeError{Index: i, Name: p.Name, Err: err})
			}
		}
		if errs != nil {
			for _, e := range multierr.Errors(errs) {
				fmt.Fprintln(os.Stderr, e)
			}
			if hasMissing(errs) {
				fmt.Fprintf(os.Stderr, "(looked in %s)\n", *models)
			}
			os.Exit(1)
		}
	}

	fmt.Printf("%s: ok (%d objects)\n", fs.Arg(0), len(placements))
}

func hasMissing(err error) bool {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, assets.ErrModelNotFound) {
			return true
		}
	}
	return false
}

func cmdConvert(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool convert <in> <out>")
		os.Exit(1)
	}

	doc, err := persistence.ReadFile(args[0])
	if err != nil {
		fail(err)
	}
	if err := doc.Validate(); err != nil {
		fail(err)
	}
	if err := persistence.WriteFile(args[1], doc); err != nil {
		fail(err)
	}

	fmt.Printf("%s (%s) -> %s (%s), %d objects\n",
		args[0], persistence.FormatFromPath(args[0]),
		args[1], persistence.FormatFromPath(args[1]),
		len(doc.Nodes))
}

func cmdNew(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool new <out>")
		os.Exit(1)
	}
	if _, err := os.Stat(args[0]); err == nil {
		fail(fmt.Errorf("%s already exists", args[0]))
	}

	env := config.Default().Environment
	sun := &persistence.SunRecord{
		Color:     env.SunColor,
		Intensity: env.SunIntensity,
		X:         env.SunX,
		Z:         env.SunZ,
	}
	doc := &persistence.Document{
		Ground: &persistence.GroundRecord{Texture: env.GroundTexture, Repeats: env.GroundRepeats},
		Skybox: &persistence.SkyboxRecord{Texture: env.SkyboxTexture},
		Sun:    sun,
		Nodes:  []persistence.NodeRecord{},
	}
	if err := persistence.WriteFile(args[0], doc); err != nil {
		fail(err)
	}
	fmt.Printf("Created %s\n", args[0])
}

func cmdTextures(args []string) {
	cfg := config.Default()
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	dir := fs.String("dir", cfg.Assets.TextureDir, "Texture directory")
	fs.Parse(args)

	tm := assets.TextureMaterials{Dir: *dir}
	names := append(append([]string{}, cfg.Assets.GroundTextures...), cfg.Assets.SkyboxTextures...)

	missing := 0
	for _, name := range names {
		info, err := tm.Probe(name)
		if err != nil {
			fmt.Printf("  %-32s %v\n", name, err)
			missing++
			continue
		}
		fmt.Printf("  %-32s %s %dx%d\n", name, info.Format, info.Width, info.Height)
	}

	if missing > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d of %d textures unusable in %s)\n", missing, len(names), *dir)
		os.Exit(1)
	}
}
