package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/models"
)

const recommendationLimit = 10

// SimilarityModel is the precomputed item-similarity artifact: a square
// matrix of pairwise scores and a map from event id to matrix index. It is
// produced offline by the training pipeline and consumed read-only here.
type SimilarityModel struct {
	EventIndices map[string]int `json:"event_indices"`
	Matrix       [][]float64    `json:"matrix"`
}

// LoadSimilarityModel reads and validates the model artifact. A missing or
// malformed artifact is a startup failure for the recommendation path.
func LoadSimilarityModel(path string) (*SimilarityModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading similarity model: %w", err)
	}

	var model SimilarityModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing similarity model: %w", err)
	}

	n := len(model.Matrix)
	for i, row := range model.Matrix {
		if len(row) != n {
			return nil, fmt.Errorf("similarity matrix is not square: row %d has %d entries, want %d", i, len(row), n)
		}
	}
	for id, idx := range model.EventIndices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("event %s maps to index %d outside matrix of size %d", id, idx, n)
		}
	}
	return &model, nil
}

// Recommender ranks candidate events for a user from their saved events.
type Recommender struct {
	db    *gorm.DB
	model *SimilarityModel
}

func NewRecommender(db *gorm.DB, model *SimilarityModel) *Recommender {
	return &Recommender{db: db, model: model}
}

// RecommendForUser returns up to 10 events. Users with no saved events that
// map into the model fall back to the most-sold ordering. Saved events are
// masked out of the candidates, and only strictly positive summed scores
// qualify, so fewer than 10 results is normal.
func (r *Recommender) RecommendForUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	db := r.db.WithContext(ctx)

	var savedIDs []uuid.UUID
	if err := db.Model(&models.SavedEvent{}).
		Where("user_id = ? AND event_id IS NOT NULL", userID).
		Pluck("event_id", &savedIDs).Error; err != nil {
		return nil, err
	}

	var savedIndices []int
	for _, id := range savedIDs {
		if idx, ok := r.model.EventIndices[id.String()]; ok {
			savedIndices = append(savedIndices, idx)
		}
	}

	if len(savedIndices) == 0 {
		return r.popularFallback(ctx)
	}

	scores := make([]float64, len(r.model.Matrix))
	for _, idx := range savedIndices {
		for i, score := range r.model.Matrix[idx] {
			scores[i] += score
		}
	}
	for _, idx := range savedIndices {
		scores[idx] = math.Inf(-1)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	indexToEventID := make(map[int]string, len(r.model.EventIndices))
	for id, idx := range r.model.EventIndices {
		indexToEventID[idx] = id
	}

	var rankedIDs []uuid.UUID
	for _, idx := range order {
		if len(rankedIDs) == recommendationLimit {
			break
		}
		if scores[idx] <= 0 {
			break
		}
		idStr, ok := indexToEventID[idx]
		if !ok {
			continue
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		rankedIDs = append(rankedIDs, id)
	}

	if len(rankedIDs) == 0 {
		return []models.Event{}, nil
	}

	var events []models.Event
	if err := db.Where("id IN ?", rankedIDs).Find(&events).Error; err != nil {
		return nil, err
	}

	// Preserve descending-score order and drop ids that no longer resolve.
	byID := make(map[uuid.UUID]models.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}
	ordered := make([]models.Event, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if event, ok := byID[id]; ok {
			ordered = append(ordered, event)
		}
	}
	return ordered, nil
}

func (r *Recommender) popularFallback(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Order("tickets_sold DESC").
		Limit(recommendationLimit).
		Find(&events).Error
	return events, err
}
