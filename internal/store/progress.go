package store

import (
	"context"
	"fmt"

	"github.com/neyapai/server/ent"
	"github.com/neyapai/server/ent/progress"
)

// progressRepo implements ProgressRepo using the ent client.
type progressRepo struct {
	client *ent.Client
}

func (r *progressRepo) Get(ctx context.Context, userID string) (*Progress, error) {
	p, err := r.client.Progress.Query().
		Where(progress.UserIDEQ(userID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return entProgressToProgress(p), nil
}

func (r *progressRepo) Upsert(ctx context.Context, p *Progress) error {
	existing, err := r.client.Progress.Query().
		Where(progress.UserIDEQ(p.UserID)).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return fmt.Errorf("query progress: %w", err)
	}

	if existing != nil {
		_, err = existing.Update().
			SetCourseID(p.CourseID).
			SetSection(p.Section).
			SetStep(p.Step).
			SetCompleted(p.Completed).
			SetNillableCompletedAt(p.CompletedAt).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		return nil
	}

	_, err = r.client.Progress.Create().
		SetUserID(p.UserID).
		SetCourseID(p.CourseID).
		SetSection(p.Section).
		SetStep(p.Step).
		SetCompleted(p.Completed).
		SetNillableCompletedAt(p.CompletedAt).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.Progress.Delete().
		Where(progress.UserIDEQ(userID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// entProgressToProgress converts an ent Progress to a store Progress.
func entProgressToProgress(p *ent.Progress) *Progress {
	return &Progress{
		UserID:      p.UserID,
		CourseID:    p.CourseID,
		Section:     p.Section,
		Step:        p.Step,
		Completed:   p.Completed,
		CompletedAt: p.CompletedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
