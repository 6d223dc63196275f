package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog   services.CatalogService
	validator *RequestValidator
}

func NewCatalogController(catalog services.CatalogService, validator *RequestValidator) *CatalogController {
	return &CatalogController{catalog: catalog, validator: validator}
}

// ListBoardgames returns a page of boardgames, optionally filtered by a
// name search (?q=), category and publisher.
func (cc *CatalogController) ListBoardgames(c *gin.Context) {
	page, limit, err := cc.validator.ParsePagination(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	categoryID, err := cc.validator.parseOptionalUUIDQuery(c, "category")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	publisherID, err := cc.validator.parseOptionalUUIDQuery(c, "publisher")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	games, meta, err := cc.catalog.ListBoardgames(c.Request.Context(), models.BoardgameFilter{
		Query:       strings.TrimSpace(c.Query("q")),
		CategoryID:  categoryID,
		PublisherID: publisherID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": games, "meta": meta})
}

func (cc *CatalogController) GetBoardgame(c *gin.Context) {
	id, err := cc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	game, err := cc.catalog.GetBoardgame(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": game})
}

func (cc *CatalogController) CreateBoardgame(c *gin.Context) {
	var req models.BoardgameRequest
	if err := cc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	game, err := cc.catalog.CreateBoardgame(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": game})
}

// UpdateBoardgame replaces every field of an existing boardgame.
func (cc *CatalogController) UpdateBoardgame(c *gin.Context) {
	id, err := cc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req models.BoardgameRequest
	if err := cc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	game, err := cc.catalog.UpdateBoardgame(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": game})
}

func (cc *CatalogController) DeleteBoardgame(c *gin.Context) {
	id, err := cc.validator.ParseUUIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := cc.catalog.DeleteBoardgame(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (cc *CatalogController) ListCategories(c *gin.Context) {
	categories, err := cc.catalog.ListCategories(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req models.NameRequest
	if err := cc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	category, err := cc.catalog.CreateCategory(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (cc *CatalogController) ListPublishers(c *gin.Context) {
	publishers, err := cc.catalog.ListPublishers(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": publishers})
}

func (cc *CatalogController) CreatePublisher(c *gin.Context) {
	var req models.NameRequest
	if err := cc.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	publisher, err := cc.catalog.CreatePublisher(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": publisher})
}
