package models

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// Rating - оценка одной стороны candidatura другой стороной (avaliacao).
type Rating struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ApplicationID   uuid.UUID `db:"application_id" json:"application_id"`
	PostingID       uuid.UUID `db:"posting_id" json:"posting_id"`
	RaterRole       vo.Role   `db:"rater_role" json:"rater_role"`
	RaterID         uuid.UUID `db:"rater_id" json:"rater_id"`
	RateeRole       vo.Role   `db:"ratee_role" json:"ratee_role"`
	RateeID         uuid.UUID `db:"ratee_id" json:"ratee_id"`
	Score           int       `db:"score" json:"score"`
	Comment         *string   `db:"comment" json:"comment,omitempty"`
	Punctuality     *int      `db:"punctuality" json:"pontualidade,omitempty"`
	Professionalism *int      `db:"professionalism" json:"profissionalismo,omitempty"`
	Communication   *int      `db:"communication" json:"comunicacao,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SubScores - необязательные детальные оценки 1-5.
type SubScores struct {
	Punctuality     *int `json:"pontualidade,omitempty"`
	Professionalism *int `json:"profissionalismo,omitempty"`
	Communication   *int `json:"comunicacao,omitempty"`
}

// RatingAggregate хранит точную сумму оценок и их количество.
type RatingAggregate struct {
	Sum   int `json:"sum"`
	Count int `json:"count"`
}

// Mean - среднее; 0 если оценок ещё нет.
func (a RatingAggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// Add возвращает агрегат после добавления оценки.
func (a RatingAggregate) Add(score int) RatingAggregate {
	return RatingAggregate{Sum: a.Sum + score, Count: a.Count + 1}
}
