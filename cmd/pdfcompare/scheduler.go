package main

import (
	"context"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/logging"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/resource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/scheduler"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
)

// buildScheduler wires a Scheduler from the process's flags: the
// configured store backend, the ledongthuc-backed Parser, the
// whole-document BoundaryDetector, a NullRenderer-based RendererFactory,
// and a BasicSSIMKernel. A deployment with a real rasteriser swaps
// rendererFactory for one that opens it instead of NullRenderer.
func buildScheduler(ctx context.Context, logger logging.Logger) (*scheduler.Scheduler, store.ComparisonRepository, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	repo, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	governor := resource.New(cfg, logger)

	rendererFactory := func(ctx context.Context, path string) (pdfsource.Renderer, error) {
		return pdfsource.NullRenderer{}, nil
	}

	s := scheduler.New(
		cfg,
		repo,
		pdfsource.NewLedongthucParser(),
		pdfsource.WholeDocumentDetector{},
		rendererFactory,
		similarity.BasicSSIMKernel{},
		governor,
		logger,
	)
	return s, repo, nil
}
