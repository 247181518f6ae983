package forms

import (
	"context"
	"fmt"
	"strings"

	"portfolio/models"
	"portfolio/store"
)

// Target is a record the dashboard can delete. The set of implementations
// is closed: one per collection.
type Target interface {
	Kind() string
	ID() string
	Delete(ctx context.Context, c *store.Client) error
	target()
}

type (
	DeleteProfile    struct{ id string }
	DeleteProject    struct{ id string }
	DeleteExperience struct{ id string }
	DeleteSkill      struct{ id string }
	DeleteMessage    struct{ id string }
)

func (t DeleteProfile) Kind() string    { return models.TableProfiles }
func (t DeleteProject) Kind() string    { return models.TableProjects }
func (t DeleteExperience) Kind() string { return models.TableExperience }
func (t DeleteSkill) Kind() string      { return models.TableSkills }
func (t DeleteMessage) Kind() string    { return models.TableMessages }

func (t DeleteProfile) ID() string    { return t.id }
func (t DeleteProject) ID() string    { return t.id }
func (t DeleteExperience) ID() string { return t.id }
func (t DeleteSkill) ID() string      { return t.id }
func (t DeleteMessage) ID() string    { return t.id }

func (t DeleteProfile) Delete(ctx context.Context, c *store.Client) error {
	return store.Delete[models.Profile](ctx, c, t.id)
}

func (t DeleteProject) Delete(ctx context.Context, c *store.Client) error {
	return store.Delete[models.Project](ctx, c, t.id)
}

func (t DeleteExperience) Delete(ctx context.Context, c *store.Client) error {
	return store.Delete[models.Experience](ctx, c, t.id)
}

func (t DeleteSkill) Delete(ctx context.Context, c *store.Client) error {
	return store.Delete[models.Skill](ctx, c, t.id)
}

func (t DeleteMessage) Delete(ctx context.Context, c *store.Client) error {
	return store.Delete[models.Message](ctx, c, t.id)
}

func (DeleteProfile) target()    {}
func (DeleteProject) target()    {}
func (DeleteExperience) target() {}
func (DeleteSkill) target()      {}
func (DeleteMessage) target()    {}

// ParseTarget builds the delete target for a collection name and record id.
func ParseTarget(kind, id string) (Target, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrValidation)
	}
	switch kind {
	case models.TableProfiles:
		return DeleteProfile{id: id}, nil
	case models.TableProjects:
		return DeleteProject{id: id}, nil
	case models.TableExperience:
		return DeleteExperience{id: id}, nil
	case models.TableSkills:
		return DeleteSkill{id: id}, nil
	case models.TableMessages:
		return DeleteMessage{id: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", ErrValidation, kind)
	}
}
