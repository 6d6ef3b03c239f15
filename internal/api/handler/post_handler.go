package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/metrics"
	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List returns all posts that have not been deleted.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/posts/ [get]
func (h *PostHandler) List(c echo.Context) error {
	if _, err := authenticatedCaller(c); err != nil {
		return err
	}

	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Create publishes a post authored by the caller.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/posts/ [post]
func (h *PostHandler) Create(c echo.Context) error {
	p, err := authenticatedCaller(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.postService.CreatePost(c.Request().Context(), ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Caller:  p,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Get returns a single post.
//
// @Summary      Retrieve a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id}/ [get]
func (h *PostHandler) Get(c echo.Context) error {
	if _, err := authenticatedCaller(c); err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Replace overwrites title and content.
//
// @Summary      Replace a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Post ID"
// @Param        body  body      replacePostRequest  true  "Post"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/posts/{id}/ [put]
func (h *PostHandler) Replace(c echo.Context) error {
	p, err := authenticatedCaller(c)
	if err != nil {
		return err
	}

	var req replacePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return h.update(c, ports.UpdatePostInput{
		ID:      c.Param("id"),
		Title:   &req.Title,
		Content: &req.Content,
		Caller:  p,
	})
}

// Patch changes only the fields present in the body.
//
// @Summary      Partially update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Post ID"
// @Param        body  body      patchPostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/posts/{id}/ [patch]
func (h *PostHandler) Patch(c echo.Context) error {
	p, err := authenticatedCaller(c)
	if err != nil {
		return err
	}

	var req patchPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.Title == nil && req.Content == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	return h.update(c, ports.UpdatePostInput{
		ID:      c.Param("id"),
		Title:   req.Title,
		Content: req.Content,
		Caller:  p,
	})
}

func (h *PostHandler) update(c echo.Context, in ports.UpdatePostInput) error {
	post, err := h.postService.UpdatePost(c.Request().Context(), in)
	observeOwnership(err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete soft-deletes a post. Repeating the call is harmless.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id}/ [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	p, err := authenticatedCaller(c)
	if err != nil {
		return err
	}

	err = h.postService.DeletePost(c.Request().Context(), c.Param("id"), p)
	observeOwnership(err)
	if err != nil {
		return err
	}

	metrics.PostsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// observeOwnership records the ownership gate outcome. Not-found and store
// errors happen before the gate runs and are not counted.
func observeOwnership(err error) {
	switch {
	case err == nil:
		metrics.ObserveDecision(metrics.GateOwnership, authz.Allow)
	case errors.Is(err, domain.ErrForbidden):
		metrics.ObserveDecision(metrics.GateOwnership, authz.Deny)
	}
}
