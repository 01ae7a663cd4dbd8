package service

import (
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"time"
)

// ActivityService is the append-only activity log. It is passed explicitly to
// the dispatch and tracking services rather than living behind a global
// registry.
type ActivityService struct {
	Repo *repository.ActivityRepository
}

func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{Repo: repo}
}

// Record appends one (actor, verb, target) event stamped with the current
// time. Events are never deduplicated: repeated opens and clicks carry signal.
func (s *ActivityService) Record(actorID uint, verb, targetType string, targetID uint) error {
	return s.Repo.Create(&model.Activity{
		ActorID:    actorID,
		Verb:       verb,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  time.Now(),
	})
}

func (s *ActivityService) ListAll() ([]model.Activity, error) {
	return s.Repo.ListAll()
}

func (s *ActivityService) ListRecent(limit int) ([]model.Activity, error) {
	return s.Repo.ListRecent(limit)
}

func (s *ActivityService) ListByTarget(targetType string, targetID uint) ([]model.Activity, error) {
	return s.Repo.ListByTarget(targetType, targetID)
}
