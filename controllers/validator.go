package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation constants
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = 1000000
)

var maxPrice = decimal.NewFromInt(100000)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("money", validateMoney)

	return &RequestValidator{validate: v}
}

// validateMoney accepts 0 <= amount < 100000 with at most two decimals.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThan(maxPrice) && d.Equal(d.Round(2))
}

// BindJSON decodes the body into dst and runs the validate tags.
func (rv *RequestValidator) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Invalid("invalid request body")
	}
	if err := rv.validate.Struct(dst); err != nil {
		return apperrors.Invalid(describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "money":
			parts = append(parts, fmt.Sprintf("%s must be between 0 and 99999.99 with at most 2 decimal places", fe.Field()))
		case "gtefield":
			parts = append(parts, fmt.Sprintf("%s must not be less than %s", fe.Field(), fe.Param()))
		default:
			if fe.Param() != "" {
				parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			} else {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParsePagination validates and parses pagination parameters
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, apperrors.Invalid("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 {
		return 0, 0, apperrors.Invalid("invalid page size")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit, nil
}

// ParseUUIDParam reads a path parameter that must be a UUID.
func (rv *RequestValidator) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Invalid(fmt.Sprintf("invalid %s format", name))
	}
	return id, nil
}

// parseOptionalUUIDQuery returns nil when the query parameter is absent.
func (rv *RequestValidator) parseOptionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Invalid(fmt.Sprintf("invalid %s format", name))
	}
	return &id, nil
}

// currentUser resolves the authenticated user or writes a 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthenticated("Unauthorized"))
		return uuid.Nil, false
	}
	return userID, true
}
