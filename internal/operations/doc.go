// Package operations runs the page-view pipeline as a sequence of traced
// steps.
//
// A run has two phases. Prepare executes the load and clean steps once and
// caches the cleaned snapshot. Run then executes the three plot steps, in
// parallel through an errgroup or one after another, followed by the
// optional export step. Every step is wrapped in an OpenTelemetry span,
// timed into the pipeline metrics and logged at start and finish. The first
// failing step cancels the others and its error is returned unchanged.
//
// Example usage:
//
//	p, err := operations.NewPipeline(cfg, paths, logger, providers)
//	if err != nil {
//		return err
//	}
//	state, err := p.Run(ctx)
package operations
