package shell

import (
	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
)

// Options selects where blocks are written
type Options struct {
	Shells []string
	OS     string
	Home   string
	// Remove deletes the block instead of writing it
	Remove bool
}

// Apply keeps the devstrap block of every shell in sync with cfg. An empty
// cfg removes the block.
func Apply(w *filesync.Writer, cfg config.ShellConfig, opts Options) ([]filesync.Result, error) {
	logger := logging.GetLogger("shell")

	if len(opts.Shells) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no shell to configure; set shell.shells or $SHELL")
	}

	results := make([]filesync.Result, 0, len(opts.Shells))
	for _, sh := range opts.Shells {
		rc, err := RCFile(sh, opts.OS, opts.Home)
		if err != nil {
			return results, err
		}

		var result filesync.Result
		if opts.Remove || cfg.IsEmpty() {
			result = w.RemoveBlock(rc, BlockID)
		} else {
			result = w.EnsureBlock(rc, filesync.Block{ID: BlockID, Body: Render(sh, cfg)})
		}

		logger.Debug().
			Str("shell", sh).
			Str("rc", rc).
			Str("outcome", string(result.Outcome)).
			Msg("Applied shell block")
		results = append(results, result)
	}
	return results, nil
}
