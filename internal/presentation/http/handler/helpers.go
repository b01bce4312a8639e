package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/middleware"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
)

// formDecoder decodes posted forms into request structs
var formDecoder = newDecoder("schema")

// queryDecoder decodes query strings into structs tagged for gin binding
var queryDecoder = newDecoder("form")

func newDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	d.IgnoreUnknownKeys(true)
	return d
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetSessionID extracts the browser session id set by the session middleware
func GetSessionID(c *gin.Context) string {
	return c.GetString(middleware.SessionIDKey)
}

// submitter describes who sent the current request
func submitter(c *gin.Context) service.Submitter {
	return service.Submitter{
		SessionID: GetSessionID(c),
		UserID:    GetUserID(c),
	}
}

// requireUser returns the authenticated user id. Routes behind the auth
// middleware always have one.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id := GetUserID(c)
	if id == nil {
		return uuid.Nil, false
	}
	return *id, true
}

// shapeAndID parses the :shape and :id path parameters
func shapeAndID(c *gin.Context) (enum.InvoiceShape, uuid.UUID, error) {
	shape, err := enum.ParseInvoiceShape(c.Param("shape"))
	if err != nil {
		return "", uuid.Nil, apperror.NewNotFoundError("Invoice")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", uuid.Nil, apperror.NewNotFoundError("Invoice")
	}
	return shape, id, nil
}
