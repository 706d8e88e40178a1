// Package api holds the data model shared by every wfbench package.
//
// The types here are the stable file format of the harness: workflow and
// step results, persisted workflow runs, live parallel batch status and
// the cross-run comparison report. Field names and JSON tags are part of
// the export contract and consumers may re-import the artifacts, so they
// must not be renamed.
//
// The package has no dependencies on other internal packages.
//
// # Derived fields
//
// A WorkflowResult's counts and FinalStatus are always derived from its
// step list. Use NewWorkflowResult rather than filling the counts by hand:
//
//	result := api.NewWorkflowResult("purchase-flow", steps, start, end)
//	fmt.Println(result.FinalStatus) // success, failed or partial
//
// FinalStatusFor is the pure status function over (passed, failed).
package api
