package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scribehub/identity-api/internal/api/middleware"
	"github.com/scribehub/identity-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations. Reads are public;
// mutations require an authenticated principal and pass the ownership check
// in the service.
type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List handles GET /api/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        skip   query  int  false  "Number of posts to skip"
// @Param        limit  query  int  false  "Maximum number of posts to return"
// @Success      200  {array}  postResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, err := h.postService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPostListResponse(posts))
}

// Create handles POST /api/posts. The caller becomes the owner.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  postResponse
// @Failure      401  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), middleware.Principal(c), ports.PostCreateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update handles PUT /api/posts/:id. Owner or admin.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  postResponse
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), middleware.Principal(c), c.Param("id"), ports.PostUpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /api/posts/:id. Owner or admin.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.postService.Delete(c.Request().Context(), middleware.Principal(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}
