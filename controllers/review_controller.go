package controllers

import (
	"net/http"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviews   services.ReviewService
	validator *RequestValidator
}

func NewReviewController(reviews services.ReviewService, validator *RequestValidator) *ReviewController {
	return &ReviewController{reviews: reviews, validator: validator}
}

// ListReviews returns the reviews of one boardgame, newest first.
func (rc *ReviewController) ListReviews(c *gin.Context) {
	boardgameID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	page, limit, err := rc.validator.ParsePagination(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	reviews, meta, err := rc.reviews.ListReviews(c.Request.Context(), boardgameID, page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews, "meta": meta})
}

// AverageRating returns the rating summary; a boardgame without reviews
// reports the "no reviews" status instead of an average.
func (rc *ReviewController) AverageRating(c *gin.Context) {
	boardgameID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	summary, err := rc.reviews.AverageRating(c.Request.Context(), boardgameID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (rc *ReviewController) GetUserReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardgameID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	review, err := rc.reviews.GetUserReview(c.Request.Context(), userID, boardgameID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

func (rc *ReviewController) AddReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardgameID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req models.ReviewRequest
	if err := rc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	review, err := rc.reviews.AddReview(c.Request.Context(), userID, boardgameID, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": review})
}

func (rc *ReviewController) GetReview(c *gin.Context) {
	reviewID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	review, err := rc.reviews.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

func (rc *ReviewController) UpdateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req models.ReviewRequest
	if err := rc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	review, err := rc.reviews.UpdateReview(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, err := rc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := rc.reviews.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
