package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
)

// ArchivePublisher writes the finalized session tree of every completed
// session to object storage and records the object key on the session.
type ArchivePublisher struct {
	storage  storage.FileStorage
	sessions repository.SessionRepository
	tx       repository.Transactor
}

func NewArchivePublisher(fs storage.FileStorage, sessions repository.SessionRepository, tx repository.Transactor) *ArchivePublisher {
	return &ArchivePublisher{storage: fs, sessions: sessions, tx: tx}
}

func (p *ArchivePublisher) PublishSessionCompleted(ctx context.Context, e SessionCompletedEvent) error {
	if e.Detail == nil {
		return errors.New("session completed event without detail")
	}
	body, err := json.Marshal(e.Detail)
	if err != nil {
		return fmt.Errorf("marshal session archive: %w", err)
	}

	key := storage.SessionArchiveKey(e.TraineeID, e.SessionID)
	if err := p.storage.PutObject(ctx, key, "application/json", body); err != nil {
		return fmt.Errorf("upload session archive: %w", err)
	}

	err = p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := p.sessions.GetForUpdate(ctx, e.SessionID)
		if err != nil {
			return err
		}
		session.ArchiveKey = key
		return p.sessions.Update(ctx, session)
	})
	if err != nil {
		// Don't leave an orphaned object behind
		if delErr := p.storage.DeleteObject(ctx, key); delErr != nil {
			log.Warnf("delete orphaned archive %s: %s", key, delErr)
		}
		return fmt.Errorf("record session archive key: %w", err)
	}
	return nil
}

func (p *ArchivePublisher) PublishSessionAbandoned(context.Context, SessionAbandonedEvent) error {
	return nil
}

func (p *ArchivePublisher) PublishPlanAdvanced(context.Context, PlanAdvancedEvent) error {
	return nil
}
