package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kpauljoseph/pagemark/internal/config"
	"github.com/kpauljoseph/pagemark/internal/export"
	"github.com/kpauljoseph/pagemark/internal/render"
	"github.com/kpauljoseph/pagemark/internal/scanner"
	"github.com/kpauljoseph/pagemark/internal/session"
	"github.com/kpauljoseph/pagemark/pkg/logger"
	"github.com/kpauljoseph/pagemark/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	input := flag.String("input", "", "input PDF file")
	output := flag.String("output", "", "output PDF file (default: <input>-edited.pdf)")
	rotateSpec := flag.String("rotate", "", "per-page rotations, e.g. 2:90,3:-90")
	deleteSpec := flag.String("delete", "", "pages to delete, e.g. 1,4")
	reorderSpec := flag.String("reorder", "", "move a page between display positions, e.g. 3:1 (1-based)")
	globalRotate := flag.Int("global-rotate", 0, "global rotation in degrees (multiple of 90)")
	previewPage := flag.Int("preview", 0, "render this page (at its effective rotation) to a PNG in the output dir")
	mergeDir := flag.String("merge-dir", "", "merge every PDF under this directory into -output")
	splitSpan := flag.Int("split-span", 0, "split -input into chunks of this many pages")
	extractSpec := flag.String("extract", "", "extract pages into -output, e.g. 1,3,5")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return
	}

	logOptions := []logger.Option{
		logger.WithPrefix("[pagemark] "),
	}

	log := logger.New(logOptions...)
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal("Error loading config: %v", err)
		}
	}

	ctx := context.Background()
	exporter := export.New(log)

	// Merge/split/extract operate directly on source files and skip the
	// editing session entirely.
	if *mergeDir != "" {
		if *output == "" {
			log.Fatal("-output is required with -merge-dir")
		}
		pdfs, err := scanner.New(log).FindPDFs(ctx, *mergeDir)
		if err != nil {
			log.Fatal("Error scanning %s: %v", *mergeDir, err)
		}
		if err := exporter.Merge(pdfs, *output); err != nil {
			log.Fatal("Error merging: %v", err)
		}
		return
	}

	if *input == "" {
		log.Fatal("-input is required")
	}

	if *splitSpan > 0 {
		if err := exporter.Split(*input, cfg.OutputDir, *splitSpan); err != nil {
			log.Fatal("Error splitting: %v", err)
		}
		return
	}

	if *extractSpec != "" {
		if *output == "" {
			log.Fatal("-output is required with -extract")
		}
		pages, err := parsePages(*extractSpec)
		if err != nil {
			log.Fatal("Error parsing -extract: %v", err)
		}
		if err := exporter.ExtractPages(*input, *output, pages); err != nil {
			log.Fatal("Error extracting: %v", err)
		}
		return
	}

	doc, err := render.Open(*input, log)
	if err != nil {
		log.Fatal("Error opening %s: %v", *input, err)
	}
	defer doc.Close()

	dims, err := doc.PageSizes()
	if err != nil {
		log.Fatal("Error reading page dimensions: %v", err)
	}
	log.Info("Opened %s: %d pages", *input, len(dims))

	sess, err := session.New(dims,
		session.WithLogger(log),
		session.WithHistoryCapacity(cfg.HistoryCapacity),
		session.WithHitThreshold(cfg.HitThresholdPx),
		session.WithMinAnnotationSize(cfg.MinAnnotationSize),
		session.WithTextBoxDefaults(cfg.DefaultTextBox.Width, cfg.DefaultTextBox.Height),
	)
	if err != nil {
		log.Fatal("Error creating session: %v", err)
	}

	if *globalRotate != 0 {
		if !sess.SetGlobalRotation(*globalRotate) {
			log.Warn("global rotation %d not applied", *globalRotate)
		}
	}

	if *rotateSpec != "" {
		pairs, err := parsePairs(*rotateSpec)
		if err != nil {
			log.Fatal("Error parsing -rotate: %v", err)
		}
		for _, pr := range pairs {
			if !sess.RotatePage(pr[0], pr[1]) {
				log.Warn("rotation %d:%d not applied", pr[0], pr[1])
			}
		}
	}

	if *deleteSpec != "" {
		pages, err := parsePages(*deleteSpec)
		if err != nil {
			log.Fatal("Error parsing -delete: %v", err)
		}
		for _, page := range pages {
			if !sess.DeletePage(page) {
				log.Warn("page %d not deleted", page)
			}
		}
	}

	if *reorderSpec != "" {
		pairs, err := parsePairs(*reorderSpec)
		if err != nil || len(pairs) != 1 {
			log.Fatal("Error parsing -reorder: want a single from:to pair")
		}
		// Flags are 1-based for humans; the session indexes positions from 0.
		if !sess.ReorderPages(pairs[0][0]-1, pairs[0][1]-1) {
			log.Warn("reorder %d:%d not applied", pairs[0][0], pairs[0][1])
		}
	}

	log.Info("Visible page order: %v", sess.VisibleOrder())
	for _, entry := range sess.History() {
		log.Debug("history: %s", entry.Description)
	}

	if *previewPage > 0 {
		if err := writePreview(ctx, doc, sess, *previewPage, cfg, log); err != nil {
			log.Fatal("Error rendering preview: %v", err)
		}
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(*input, ".pdf") + "-edited.pdf"
	}

	if err := exporter.Save(sess.SaveBundle(), *input, out); err != nil {
		log.Fatal("Error saving: %v", err)
	}
}

func writePreview(ctx context.Context, doc *render.Document, sess *session.Session, page int, cfg *config.Config, log *logger.Logger) error {
	if !sess.GoToPage(page) {
		return fmt.Errorf("page %d does not exist or is deleted", page)
	}

	img, err := doc.RenderPage(ctx, page, sess.EffectiveRotation(page), cfg.Render.DPI/72.0)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(cfg.OutputDir, fmt.Sprintf("page_%d.png", page))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	log.Info("Wrote preview %s", path)
	return nil
}

// parsePairs parses "a:b,c:d" into int pairs.
func parsePairs(spec string) ([][2]int, error) {
	var out [][2]int
	for _, part := range strings.Split(spec, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid pair %q, want a:b", part)
		}
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", fields[0], err)
		}
		b, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", fields[1], err)
		}
		out = append(out, [2]int{a, b})
	}
	return out, nil
}

func parsePages(spec string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(spec, ",") {
		page, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q: %w", part, err)
		}
		out = append(out, page)
	}
	return out, nil
}
