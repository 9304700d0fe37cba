package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enterprisey/article-history/app/database"
)

const talkNamespace = 1

type EmbeddedInLister interface {
	EmbeddedIn(ctx context.Context, title string, namespace int, cont string) ([]string, string, error)
}

// EmbeddedInSource walks the talk pages transcluding a template. The
// continuation token is stored after every batch so an interrupted run
// resumes where it stopped.
type EmbeddedInSource struct {
	lister      EmbeddedInLister
	checkpoints database.CheckpointRepository
	template    string
	done        bool
}

func NewEmbeddedInSource(lister EmbeddedInLister, checkpoints database.CheckpointRepository, template string) *EmbeddedInSource {
	return &EmbeddedInSource{
		lister:      lister,
		checkpoints: checkpoints,
		template:    template,
	}
}

func (s *EmbeddedInSource) checkpointName() string {
	return "embeddedin:" + s.template
}

func (s *EmbeddedInSource) Next(ctx context.Context) ([]string, error) {
	if s.done {
		return nil, ErrExhausted
	}

	cont, err := s.checkpoints.GetCheckpoint(s.checkpointName())
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cont != "" {
		slog.Debug("Resuming transclusion listing", "template", s.template, "continue", cont)
	}

	titles, next, err := s.lister.EmbeddedIn(ctx, s.template, talkNamespace, cont)
	if err != nil {
		return nil, err
	}

	// An empty token means the listing is complete; clearing the
	// checkpoint makes the next run start over.
	if err := s.checkpoints.SetCheckpoint(s.checkpointName(), next); err != nil {
		return nil, fmt.Errorf("failed to store checkpoint: %w", err)
	}
	if next == "" {
		s.done = true
	}
	return titles, nil
}
