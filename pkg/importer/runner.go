package importer

import (
	"context"
	"fmt"
)

// Run imports one source into outputDir using the URL recorded in sdb, and
// records the attempt in import_runs.
func Run(ctx context.Context, sdb *SourceDB, a Adapter, outputDir string) (*Result, error) {
	url, err := sdb.GetURL(a.ID())
	if err != nil {
		return nil, err
	}
	runID, err := sdb.StartRun(a.ID())
	if err != nil {
		return nil, err
	}
	res, runErr := a.Import(ctx, url, outputDir)
	if runErr != nil {
		runErr = fmt.Errorf("import %s: %w", a.ID(), runErr)
		res = nil
	}
	if err := sdb.FinishRun(runID, res, runErr); err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("%w (and %v)", runErr, err)
		}
		return nil, err
	}
	return res, runErr
}
