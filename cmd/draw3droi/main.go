package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/floats"

	"draw3droi/pkg/config"
	"draw3droi/pkg/region"
	"draw3droi/pkg/session"
	"draw3droi/pkg/stack"
	"draw3droi/pkg/visualization"
	"draw3droi/pkg/volume"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	createConfig := flag.Bool("create-config", false, "Write the default configuration to -config and exit")
	inputDir := flag.String("input", "", "Directory containing the 2D slices of the volume")
	roiFile := flag.String("roi", "", "YAML file with the xy, xz and yz regions")
	perspective := flag.String("perspective", "", "Working view perspective: xy, xz or yz")
	projectionName := flag.String("projection", "", "Working view projection: none, max, mean, median or variance")
	preview := flag.Bool("preview", false, "Overlay the mask preview on the working view")
	outputDir := flag.String("output", "", "Directory for the working views and the mask")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	flag.Parse()

	if *createConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *perspective != "" {
		cfg.View.Perspective = *perspective
	}
	if *projectionName != "" {
		cfg.View.Projection = *projectionName
	}
	if *preview {
		cfg.Preview.Enabled = true
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	session.SetLogger(logger)

	fmt.Println("================================")
	fmt.Println("DRAW 3D ROI: MASK FROM THREE ORTHOGONAL REGIONS")
	fmt.Println("================================")

	startTime := time.Now()
	factory := volume.HeapFactory{MaxVoxels: cfg.Processing.MaxVoxels}

	vol, err := stack.Load(*inputDir, stack.Options{
		Factory:   factory,
		PixelSize: cfg.Processing.PixelSize,
		SliceGap:  cfg.Processing.SliceGap,
		Unit:      cfg.Processing.Unit,
		Workers:   cfg.Processing.NumCores,
	})
	if err != nil {
		log.Fatalf("Failed to load slices: %v", err)
	}
	fmt.Printf("Loaded %s\n", vol)

	initial, err := cfg.Initial()
	if err != nil {
		log.Fatalf("Invalid view settings: %v", err)
	}

	viewer := visualization.NewViewer(filepath.Join(cfg.Output.Dir, "views"), cfg.Output.Format)
	sess, err := session.New(vol, session.Options{
		Display:    viewer,
		Status:     session.LogStatus{Logger: logger},
		Workers:    cfg.Processing.NumCores,
		Factory:    factory,
		PaintValue: cfg.Preview.PaintValue,
		Initial:    initial,
	})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer sess.Close()

	if *roiFile != "" {
		regions, err := region.LoadFile(*roiFile)
		if err != nil {
			log.Fatalf("Failed to load ROI file: %v", err)
		}
		for _, p := range session.Perspectives {
			r, ok := regions[p.Plane()]
			if !ok {
				continue
			}
			if err := sess.SetRegionFor(p, r); err != nil {
				log.Fatalf("Failed to set %s region: %v", p, err)
			}
		}
	}

	mask, err := sess.SynthesizeExport()
	if err != nil {
		log.Fatalf("Mask generation failed: %v", err)
	}
	maskDir := filepath.Join(cfg.Output.Dir, "mask")
	if err := visualization.SaveMask(mask, maskDir, cfg.Output.Format); err != nil {
		log.Fatalf("Failed to save mask: %v", err)
	}
	processingTime := time.Since(startTime)

	selected := floats.Sum(mask.Values())
	fmt.Printf("\nMask generated in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Mask: %s\n", mask)
	fmt.Printf("Selected voxels: %.0f of %d (%.2f%%)\n", selected, mask.Len(), 100*selected/float64(mask.Len()))
	fmt.Printf("Working views (%d) saved to: %s\n", viewer.Views(), filepath.Join(cfg.Output.Dir, "views"))
	fmt.Printf("Mask slices saved to: %s\n", maskDir)
}
