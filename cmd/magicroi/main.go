package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"magicroi/internal/models"
	"magicroi/pkg/config"
	"magicroi/pkg/magicroi"
	"magicroi/pkg/visualization"
	"magicroi/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing 2D image slices")
	configPath := flag.String("config", "magicroi.yaml", "Path to YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to -config and exit")
	view := flag.String("view", "", "Slicing orientation: axial, sagittal or coronal (overrides config)")
	slice := flag.Int("slice", 0, "Slice index along the view's normal axis")
	seedX := flag.Int("seed-x", -1, "Seed column in the slice")
	seedY := flag.Int("seed-y", -1, "Seed row in the slice")
	factor := flag.Float64("factor", -1, "Initial sensitivity factor (overrides config)")
	drag := flag.Float64("drag", 0, "Vertical pointer displacement applied before committing")
	overlay := flag.String("overlay", "", "Overlay image output path (overrides config)")
	plotFile := flag.String("plot", "", "Contour plot output path (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *inputDir == "" || *seedX < 0 || *seedY < 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *view != "" {
		cfg.Input.View = *view
	}
	if *factor >= 0 {
		cfg.Magic.Factor = *factor
	}
	if *overlay != "" {
		cfg.Output.OverlayFile = *overlay
	}
	if *plotFile != "" {
		cfg.Output.PlotFile = *plotFile
	}
	if *debug {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Output.Verbose)
	if err := segment(logger, cfg, *inputDir, *slice, *seedX, *seedY, *drag); err != nil {
		logger.WithError(err).Error("Segmentation failed")
		os.Exit(1)
	}
}

// segment runs one session, cancelled on interrupt
func segment(logger *logrus.Logger, cfg *config.Config, dir string, slice, seedX, seedY int, drag float64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, logger, cfg, dir, slice, seedX, seedY, drag)
}

func run(ctx context.Context, logger *logrus.Logger, cfg *config.Config, dir string, slice, seedX, seedY int, drag float64) error {
	start := time.Now()
	vol, err := volume.LoadDir(volume.LoadParams{
		Dir:          dir,
		PixelSpacing: cfg.Input.PixelSpacing,
		SliceGap:     cfg.Input.SliceGap,
	})
	if err != nil {
		return fmt.Errorf("failed to load slices: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"dir":    dir,
		"width":  vol.Width,
		"height": vol.Height,
		"depth":  vol.Depth,
		"took":   time.Since(start),
	}).Info("Loaded volume")

	view, err := models.ParseView(cfg.Input.View)
	if err != nil {
		return err
	}
	grid, err := volume.NewSliceGrid(vol, view, slice)
	if err != nil {
		return err
	}

	canvas := visualization.NewCanvas(grid, slice, 4)
	tool := magicroi.NewTool(grid, canvas, cfg.Options(), logger)
	tool.SetDragScale(cfg.Magic.DragScale)

	seed := grid.PointAt(seedX, seedY)
	if err := tool.Start(ctx, seed); err != nil {
		return err
	}
	if drag != 0 {
		if err := tool.Drag(ctx, drag); err != nil {
			logger.WithError(err).Warn("Drag update rejected, keeping previous contour")
		}
	}
	roi, err := tool.End(ctx)
	if err != nil {
		return err
	}

	printROI(roi, view, slice)

	if cfg.Output.OverlayFile != "" {
		if err := canvas.Save(cfg.Output.OverlayFile, &seed); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		logger.WithField("path", cfg.Output.OverlayFile).Info("Saved overlay")
	}
	if cfg.Output.PlotFile != "" && roi.Polygon.Len() > 0 {
		title := fmt.Sprintf("%s slice %d", view, slice)
		if err := visualization.PlotContour(roi.Polygon, &seed, title, cfg.Output.PlotFile); err != nil {
			return err
		}
		logger.WithField("path", cfg.Output.PlotFile).Info("Saved contour plot")
	}
	return nil
}

func printROI(roi *magicroi.ROI, view models.View, slice int) {
	fmt.Println("================================")
	fmt.Printf("ROI %s (%s slice %d)\n", roi.ID, view, slice)
	fmt.Println("================================")
	fmt.Printf("Seed:      (%d, %d)\n", roi.Seed.X, roi.Seed.Y)
	fmt.Printf("Factor:    %.3f\n", roi.Factor)
	fmt.Printf("Window:    [%.4f, %.4f]\n", roi.Window.Lower, roi.Window.Upper)
	fmt.Printf("Vertices:  %d\n", len(roi.Polygon.Ring()))
	fmt.Printf("Cells:     %d\n", roi.Stats.Count)
	fmt.Printf("Area:      %.3f mm^2\n", roi.Stats.Area)
	fmt.Printf("Mean:      %.4f\n", roi.Stats.Mean)
	fmt.Printf("Std dev:   %.4f\n", roi.Stats.StdDev)
	fmt.Printf("Range:     [%.4f, %.4f]\n", roi.Stats.Min, roi.Stats.Max)
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
