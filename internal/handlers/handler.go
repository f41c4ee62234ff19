package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/internal/storage"
	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves every /api endpoint. All collaborators are injected so
// tests can run against a fresh MemoryStore.
type Handler struct {
	store    storage.Store
	cache    cache.Store
	notifier utils.Notifier
	gateway  utils.Gateway
	tokens   *utils.TokenIssuer
	now      func() time.Time
	log      zerolog.Logger

	// invalidations counts cache invalidations so a load that raced with a
	// mutation is not written back.
	invalidations atomic.Uint64
}

type Options struct {
	Store    storage.Store
	Cache    cache.Store
	Notifier utils.Notifier
	Gateway  utils.Gateway
	Tokens   *utils.TokenIssuer
	Now      func() time.Time
	Logger   zerolog.Logger
}

func New(o Options) *Handler {
	h := &Handler{
		store:    o.Store,
		cache:    o.Cache,
		notifier: o.Notifier,
		gateway:  o.Gateway,
		tokens:   o.Tokens,
		now:      o.Now,
		log:      o.Logger,
	}
	if h.cache == nil {
		h.cache = cache.Noop{}
	}
	if h.notifier == nil {
		h.notifier = utils.NoopNotifier{}
	}
	if h.gateway == nil {
		h.gateway = utils.DisabledGateway{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	models.RegisterValidators()
	return h
}

// decode reads a JSON body into dst without running binding tags.
func decode(c *gin.Context, dst any) bool {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		c.Error(apperror.Validation("Invalid JSON body: " + err.Error()))
		return false
	}
	return true
}

// bindFields decodes and validates an entity body.
func bindFields(c *gin.Context, in models.Input, mode models.Mode) bool {
	if !decode(c, in) {
		return false
	}
	if err := models.Validate(in, mode); err != nil {
		fail(c, err)
		return false
	}
	return true
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		c.Error(apperror.Validation("Invalid ID"))
		return 0, false
	}
	return id, true
}

// fail translates validation and storage errors for the ErrorHandler.
func fail(c *gin.Context, err error) {
	var appErr *apperror.AppError
	var verrs models.ValidationErrors
	var ref *storage.ReferenceError
	switch {
	case errors.As(err, &appErr):
		c.Error(appErr)
	case errors.As(err, &verrs):
		c.Error(apperror.Validation(verrs.Error()))
	case errors.As(err, &ref):
		c.Error(apperror.Validation("Validation error: " + ref.Error()))
	case errors.Is(err, storage.ErrDuplicate):
		c.Error(apperror.Conflict("Duplicate value"))
	default:
		c.Error(apperror.Internal(err))
	}
}

// serveCached answers from the response cache, or runs load and caches its
// JSON encoding. Only 200 responses are cached; cache failures degrade to an
// uncached response. A result is not cached if any invalidation in this
// process ran while it was loading. Invalidations from other processes
// sharing a Redis cache are not seen, so their window is bounded by the TTL.
func (h *Handler) serveCached(c *gin.Context, key string, load func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	if body, ok, err := h.cache.Get(ctx, key); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		utils.RawJSON(c, http.StatusOK, body)
		return
	}

	seen := h.invalidations.Load()
	v, err := load(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if h.invalidations.Load() == seen {
		if err := h.cache.Set(ctx, key, body); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	utils.RawJSON(c, http.StatusOK, body)
}

// invalidate drops stale cache entries after a successful mutation.
func (h *Handler) invalidate(ctx context.Context, inv cache.Invalidation) {
	h.invalidations.Add(1)
	if err := h.cache.Invalidate(ctx, inv); err != nil {
		h.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// storeErr wraps a storage failure so serveCached loaders can return it.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return apperror.Internal(err)
}

// notFoundOr returns v, or a 404 error naming entity when v is nil.
func notFoundOr[T any](v *T, err error, entity string) (any, error) {
	if err != nil {
		return nil, storeErr(err)
	}
	if v == nil {
		return nil, apperror.NotFound(entity + " not found")
	}
	return v, nil
}

func list[T any](v []T, err error) (any, error) {
	if err != nil {
		return nil, storeErr(err)
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}
