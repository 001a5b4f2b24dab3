package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/Semirss/betebrana/internal/engine"
	"github.com/Semirss/betebrana/internal/preprocess"
	"github.com/Semirss/betebrana/internal/textrepair"
)

// PageProcessor runs rasterize → preprocess → recognize → repair for a
// single page. Every failure is absorbed into an in-band marker; the
// caller always gets a page segment, never an error.
type PageProcessor struct {
	raster         engine.Rasterizer
	recognizer     engine.Recognizer
	language       string
	recognize      engine.RecognizeConfig
	blankThreshold float64
}

// NewPageProcessor wires a page processor to its engines.
func NewPageProcessor(raster engine.Rasterizer, recognizer engine.Recognizer, language string, cfg engine.RecognizeConfig, blankThreshold float64) *PageProcessor {
	return &PageProcessor{
		raster:         raster,
		recognizer:     recognizer,
		language:       language,
		recognize:      cfg,
		blankThreshold: blankThreshold,
	}
}

// Process converts one 1-based page to text. The returned string is
// either the repaired transcription or an error marker.
func (p *PageProcessor) Process(ctx context.Context, docPath string, page, dpi int) string {
	images, err := p.raster.Rasterize(ctx, docPath, page, dpi)
	if err != nil {
		return processingErrorMarker(page, err)
	}
	if len(images) == 0 {
		return conversionFailedMarker(page)
	}

	raw := images[0]
	images = nil // only one page's raster stays live

	if preprocess.IsBlank(raw, p.blankThreshold) {
		return ""
	}

	var cleaned image.Image = preprocess.Enhance(raw)
	raw = nil

	text, err := p.recognizer.Recognize(ctx, cleaned, p.language, p.recognize)
	if err != nil {
		return processingErrorMarker(page, err)
	}

	return textrepair.Repair(text)
}

func conversionFailedMarker(page int) string {
	return fmt.Sprintf("[ PAGE %d CONVERSION FAILED ]", page)
}

func processingErrorMarker(page int, err error) string {
	return fmt.Sprintf("[ PAGE %d PROCESSING ERROR: %v ]", page, err)
}
