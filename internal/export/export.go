// Package export is the document-mutation collaborator. Save consumes a
// session's SaveBundle; Merge, Split and ExtractPages operate directly on
// source files and bypass in-memory annotation state.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/pagemark/pkg/logger"
	"github.com/kpauljoseph/pagemark/pkg/models"
)

// AnnotationSidecarExt is appended to the output path for the annotation
// hand-off file consumed by the embedding step.
const AnnotationSidecarExt = ".annotations.json"

type Exporter struct {
	conf *model.Configuration
	log  *logger.Logger
}

func New(log *logger.Logger) *Exporter {
	return &Exporter{
		conf: model.NewDefaultConfiguration(),
		log:  log,
	}
}

// Save writes the edited document: visible pages collected in display
// order, per-page effective rotations applied, and the annotation list
// written alongside as a JSON sidecar.
func (e *Exporter) Save(bundle models.SaveBundle, inPath, outPath string) error {
	if len(bundle.PageOrder) == 0 {
		return fmt.Errorf("save: no visible pages")
	}

	e.log.Debug("collecting %d pages from %s", len(bundle.PageOrder), inPath)
	if err := api.CollectFile(inPath, outPath, PageSelection(bundle.PageOrder), e.conf); err != nil {
		return fmt.Errorf("failed to collect pages: %w", err)
	}

	// After collection the output's page i+1 is source page PageOrder[i];
	// group output positions by rotation so each value is one pass.
	byRotation := make(map[int][]int)
	for i, srcPage := range bundle.PageOrder {
		if rot := bundle.Rotations[srcPage]; rot != 0 {
			byRotation[rot] = append(byRotation[rot], i+1)
		}
	}
	for rot, positions := range byRotation {
		e.log.Debug("rotating %d pages by %d°", len(positions), rot)
		// Empty outFile rotates in place.
		if err := api.RotateFile(outPath, "", rot, PageSelection(positions), e.conf); err != nil {
			return fmt.Errorf("failed to rotate pages by %d: %w", rot, err)
		}
	}

	if err := e.writeSidecar(bundle, outPath+AnnotationSidecarExt); err != nil {
		return err
	}

	e.log.Info("saved %s (%d pages, %d annotations)",
		outPath, len(bundle.PageOrder), len(bundle.Annotations))
	return nil
}

func (e *Exporter) writeSidecar(bundle models.SaveBundle, path string) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write annotation sidecar: %w", err)
	}
	return nil
}

// Merge concatenates the input files into one document.
func (e *Exporter) Merge(inputs []string, outPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("merge: no input files")
	}
	if err := api.MergeCreateFile(inputs, outPath, false, e.conf); err != nil {
		return fmt.Errorf("failed to merge %d files: %w", len(inputs), err)
	}
	e.log.Info("merged %d files into %s", len(inputs), outPath)
	return nil
}

// Split writes span-sized chunks of the input into outDir.
func (e *Exporter) Split(inPath, outDir string, span int) error {
	if span < 1 {
		return fmt.Errorf("split: span must be at least 1, got %d", span)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := api.SplitFile(inPath, outDir, span, e.conf); err != nil {
		return fmt.Errorf("failed to split %s: %w", inPath, err)
	}
	e.log.Info("split %s into %s (span %d)", inPath, outDir, span)
	return nil
}

// ExtractPages copies the selected source pages into a new document.
func (e *Exporter) ExtractPages(inPath, outPath string, pages []int) error {
	if len(pages) == 0 {
		return fmt.Errorf("extract: no pages selected")
	}
	if err := api.CollectFile(inPath, outPath, PageSelection(pages), e.conf); err != nil {
		return fmt.Errorf("failed to extract pages: %w", err)
	}
	e.log.Info("extracted %d pages from %s into %s", len(pages), inPath, outPath)
	return nil
}

func (e *Exporter) PageCount(inPath string) (int, error) {
	count, err := api.PageCountFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// PageSelection formats page numbers the way the pdfcpu api expects.
func PageSelection(pages []int) []string {
	out := make([]string, len(pages))
	for i, page := range pages {
		out[i] = strconv.Itoa(page)
	}
	return out
}
