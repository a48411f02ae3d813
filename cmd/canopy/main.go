// Command canopy validates one fragment placement against a level map.
//
// Coordinates are relative to the map: (0, 0) is its bottom-left corner
// and (1, 1) its top-right corner.
//
//	canopy -map valley.png -fragment grove.png -x 0.4 -y 0.3 -w 0.2 -h 0.15 -rot 30 -pick 0.45,0.35
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/canopy"
	"github.com/gogpu/canopy/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file (defaults if empty)")
		mapPath    = flag.String("map", "", "level map image")
		labelsPath = flag.String("labels", "", "label sidecar of a partially labeled map")
		fragPath   = flag.String("fragment", "", "fragment stencil image")
		x          = flag.Float64("x", 0, "placement left edge")
		y          = flag.Float64("y", 0, "placement bottom edge")
		w          = flag.Float64("w", 0.25, "placement width")
		h          = flag.Float64("h", 0.25, "placement height")
		rot        = flag.Float64("rot", 0, "rotation in degrees, counter-clockwise")
		scale      = flag.Float64("scale", 1, "uniform scale factor")
		ref        = flag.String("ref", "", "reference color as #rrggbb")
		pick       = flag.String("pick", "", "pick the reference color at x,y")
		suggest    = flag.Int("suggest", 0, "print this many candidate reference colors and exit")
		out        = flag.String("out", "", "result directory (overrides the config)")
		name       = flag.String("name", "level", "result name")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	canopy.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := canopy.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = canopy.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *out != "" {
		cfg.ResultDirectory = *out
	}
	if *mapPath == "" {
		log.Fatal("-map is required")
	}

	m, err := loadMap(*mapPath, *labelsPath)
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}
	s, err := canopy.NewSession(m, canopy.Rect{Width: 1, Height: 1}, cfg)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if *suggest > 0 {
		for _, c := range s.SuggestReferences(*suggest) {
			fmt.Printf("%s\t%.3f\n", c.Color, c.Weight)
		}
		return
	}

	if err := chooseReference(s, *ref, *pick); err != nil {
		log.Fatalf("Failed to choose reference color: %v", err)
	}
	if *fragPath == "" {
		log.Fatal("-fragment is required")
	}
	frag, err := canopy.LoadPixelBuffer(*fragPath)
	if err != nil {
		log.Fatalf("Failed to load fragment: %v", err)
	}

	p := canopy.NewPlacement(canopy.Point{X: *x + *w/2, Y: *y + *h/2}, *w, *h).
		Rotate(*rot).
		Rescale(*scale - 1)
	res, err := s.Place(frag, p)
	if err != nil {
		log.Fatalf("Placement failed: %v", err)
	}

	fmt.Printf("valid=%t labeled=%d off=%d total=%d accuracy=%.3f progress=%.4f won=%t\n",
		res.Valid, res.Labeled, res.Off, res.Total, res.Accuracy(), res.Progress, res.Won)
	if !res.Valid {
		os.Exit(2)
	}

	path, err := s.Save(store.New(cfg.ResultDirectory), *name)
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Result saved to %s\n", path)
}

func loadMap(mapPath, labelsPath string) (*canopy.Map, error) {
	pixels, err := canopy.LoadPixelBuffer(mapPath)
	if err != nil {
		return nil, err
	}
	if labelsPath == "" {
		return canopy.NewMap(pixels), nil
	}
	rows, cols, data, err := store.LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	labels, err := canopy.LabelMaskFromBytes(rows, cols, data)
	if err != nil {
		return nil, err
	}
	return canopy.NewMapWithLabels(pixels, labels)
}

func chooseReference(s *canopy.Session, ref, pick string) error {
	switch {
	case ref != "" && pick != "":
		return errors.New("-ref and -pick are mutually exclusive")
	case ref != "":
		c, err := canopy.ParseRGB(ref)
		if err != nil {
			return err
		}
		s.SetReference(c)
		return nil
	case pick != "":
		px, py, ok := strings.Cut(pick, ",")
		if !ok {
			return fmt.Errorf("-pick %q: want x,y", pick)
		}
		fx, err := strconv.ParseFloat(strings.TrimSpace(px), 64)
		if err != nil {
			return fmt.Errorf("-pick %q: %w", pick, err)
		}
		fy, err := strconv.ParseFloat(strings.TrimSpace(py), 64)
		if err != nil {
			return fmt.Errorf("-pick %q: %w", pick, err)
		}
		_, err = s.PickReference(canopy.Point{X: fx, Y: fy})
		return err
	default:
		return errors.New("one of -ref or -pick is required")
	}
}
