package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/onkoe/direction/internal/analytics"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/onkoe/direction/internal/shortener"
	"go.uber.org/zap"
)

// LinkManager creates and resolves links.
type LinkManager interface {
	Generate(ctx context.Context, rawLink string, aliases []string) (*shortener.Link, error)
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Link, error)
}

// LinkHandler handles link shortening operations.
type LinkHandler struct {
	manager             LinkManager
	baseURL             string
	publishLinkCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent]
	logger              *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	manager LinkManager,
	baseURL string,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		manager:             manager,
		baseURL:             baseURL,
		publishLinkCreated:  publishLinkCreated,
		publishLinkResolved: publishLinkResolved,
		logger:              logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	link, err := h.manager.Generate(ctx, req.Body.URL, req.Body.Aliases)
	if err != nil {
		return nil, h.httpError(err, "failed to create link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Identifier:  link.Identifier.String(),
		Code:        string(link.ShortCode),
		OriginalURL: link.OriginalURL.String(),
		Aliases:     link.Aliases,
		CreatedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishLinkCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{Body: h.linkBody(link)}
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

func (h *LinkHandler) GetLink(ctx context.Context, req *CodeRequest) (*LinkResponse, error) {
	link, err := h.resolve(ctx, req.Code, false)
	if err != nil {
		return nil, err
	}

	return &LinkResponse{Body: h.linkBody(link)}, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	link, err := h.resolve(ctx, req.Code, true)
	if err != nil {
		return nil, err
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: link.OriginalURL.String(),
	}, nil
}

func (h *LinkHandler) resolve(ctx context.Context, code string, redirect bool) (*shortener.Link, error) {
	link, err := h.manager.Resolve(ctx, shortener.Code(code))
	if err != nil {
		return nil, h.httpError(err, "failed to resolve link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkResolvedEvent{
		Code:       code,
		ResolvedAt: time.Now(),
		Redirect:   redirect,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishLinkResolved(ctx, event); err != nil {
		h.logger.Error("failed to publish resolve event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return link, nil
}

func (h *LinkHandler) linkBody(link *shortener.Link) LinkBody {
	return LinkBody{
		Identifier:  link.Identifier.String(),
		Code:        string(link.ShortCode),
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, link.ShortCode),
		OriginalURL: link.OriginalURL.String(),
		Aliases:     link.Aliases,
	}
}

// httpError maps shortener errors onto HTTP problems. Unexpected errors are
// logged and hidden behind msg.
func (h *LinkHandler) httpError(err error, msg string) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidLink):
		return huma.Error422UnprocessableEntity("invalid link", err)
	case errors.Is(err, shortener.ErrLinkNotFound):
		return huma.Error404NotFound("link not found")
	case errors.Is(err, shortener.ErrShortCodeExhausted):
		return huma.Error503ServiceUnavailable("no free short code, try again")
	default:
		h.logger.Error(msg, zap.Error(err))

		return huma.Error500InternalServerError(msg)
	}
}
