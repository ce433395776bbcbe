package dto

import (
	"time"

	"skillswap/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID         uuid.UUID        `json:"id"`
	FromUserID uuid.UUID        `json:"from_user_id"`
	ToUserID   uuid.UUID        `json:"to_user_id"`
	SessionID  uuid.UUID        `json:"session_id"`
	Rating     int              `json:"rating"`
	Comment    string           `json:"comment"`
	Criteria   *review.Criteria `json:"criteria,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

type CreateReviewResponse struct {
	Review          ReviewResponse `json:"review"`
	UserRating      float64        `json:"user_rating"`
	UserReviewCount int            `json:"user_review_count"`
}

type ReviewListResponse struct {
	Items         []ReviewResponse `json:"items"`
	Total         int              `json:"total"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
	AverageRating float64          `json:"average_rating"`
}

func NewReview(r review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		SessionID:  r.SessionID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Criteria:   r.Criteria,
		CreatedAt:  r.CreatedAt,
	}
}

func NewReviews(items []review.Review) []ReviewResponse {
	res := make([]ReviewResponse, 0, len(items))
	for _, it := range items {
		res = append(res, NewReview(it))
	}
	return res
}
