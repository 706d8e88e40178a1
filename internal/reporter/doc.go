// Package reporter prints workflow progress and results to the terminal.
//
// Console implements workflow.StepObserver for step lines and offers
// StatusUpdate as a parallel.StatusObserver that prints only status
// transitions. RenderBatch, RenderComparison, RenderRuns and RenderEntries
// draw go-pretty tables.
package reporter
