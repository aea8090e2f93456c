package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paperpaints/common"
	"paperpaints/mapper"
	"paperpaints/models"
	"paperpaints/store"
)

// Input is the whitelisted request body of a record kind. Fields left nil
// were absent from the request and must not be touched by Apply.
type Input[T any] interface {
	Apply(rec *T) error
}

// Resource serves the uniform read and delete operations for one record
// kind. Create and update are added per kind with Create and Update.
type Resource[T any] struct {
	Singular string
	Plural   string
	Store    store.Store[T]
	Options  []mapper.Option
	// OnDelete runs after a record has been removed.
	OnDelete func(c *gin.Context, rec *T)
}

func NewResource[T any](singular, plural string, s store.Store[T], opts ...mapper.Option) *Resource[T] {
	return &Resource[T]{Singular: singular, Plural: plural, Store: s, Options: opts}
}

func (r *Resource[T]) List(c *gin.Context) {
	items, err := r.Store.List(c.Request.Context())
	if err != nil {
		common.Respond(c, err, "Failed to fetch "+r.Plural)
		return
	}
	docs, err := mapper.Documents(items, r.Options...)
	if err != nil {
		common.Respond(c, err, "Failed to fetch "+r.Plural)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": docs})
}

func (r *Resource[T]) Get(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}
	rec, err := r.Store.Get(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err, "Failed to fetch "+r.Singular)
		return
	}
	r.Write(c, http.StatusOK, rec, "Failed to fetch "+r.Singular)
}

func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}
	rec, err := r.Store.Delete(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err, "Failed to delete "+r.Singular)
		return
	}
	if r.OnDelete != nil {
		r.OnDelete(c, rec)
	}
	r.Write(c, http.StatusOK, rec, "Failed to delete "+r.Singular)
}

// Write maps rec to its public shape and sends it with status.
func (r *Resource[T]) Write(c *gin.Context, status int, rec *T, fallback string) {
	doc, err := mapper.Document(rec, r.Options...)
	if err != nil {
		common.Respond(c, err, fallback)
		return
	}
	c.JSON(status, doc)
}

// id rejects ids that can never resolve before they reach the store.
func (r *Resource[T]) id(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !models.ValidID(id) {
		common.Respond(c, common.NotFound(), "")
		return "", false
	}
	return id, true
}

// Create builds a handler that persists a new record from the body.
func Create[T any, I any, P interface {
	*I
	Input[T]
}](r *Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in I
		if err := c.ShouldBindJSON(&in); err != nil {
			common.Respond(c, common.Validation("Invalid request body"), "")
			return
		}
		rec := new(T)
		if err := P(&in).Apply(rec); err != nil {
			common.Respond(c, err, "Failed to create "+r.Singular)
			return
		}
		if err := r.Store.Create(c.Request.Context(), rec); err != nil {
			common.Respond(c, err, "Failed to create "+r.Singular)
			return
		}
		r.Write(c, http.StatusCreated, rec, "Failed to create "+r.Singular)
	}
}

// Update builds a handler that changes only the fields present in the body.
func Update[T any, I any, P interface {
	*I
	Input[T]
}](r *Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := r.id(c)
		if !ok {
			return
		}
		var in I
		if err := c.ShouldBindJSON(&in); err != nil {
			common.Respond(c, common.Validation("Invalid request body"), "")
			return
		}
		rec, err := r.Store.Update(c.Request.Context(), id, func(rec *T) error {
			return P(&in).Apply(rec)
		})
		if err != nil {
			common.Respond(c, err, "Failed to update "+r.Singular)
			return
		}
		r.Write(c, http.StatusOK, rec, "Failed to update "+r.Singular)
	}
}
