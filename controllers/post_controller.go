package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/inkwell/config"
	"github.com/cppla/inkwell/middleware"
	"github.com/cppla/inkwell/models"
	"github.com/cppla/inkwell/services"
	"github.com/cppla/inkwell/utils"
)

// PostController serves the feed and the post CRUD pages.
type PostController struct {
	posts  *services.PostService
	images *imageUploader
}

// NewPostController creates a PostController storing uploads as configured.
func NewPostController(posts *services.PostService, uploads config.UploadsSection) *PostController {
	return &PostController{posts: posts, images: newImageUploader(uploads)}
}

// Index lists posts filtered by ?search= and paged by ?page=.
func (p *PostController) Index(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("search"))
	page := 1
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	feed := p.posts.List(query, page)
	pages := make([]int, feed.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	utils.RenderPage(ctx, http.StatusOK, "index.html", gin.H{
		"Title":    "Blog",
		"Feed":     feed,
		"Pages":    pages,
		"PrevPage": feed.Page - 1,
		"NextPage": nextPage(feed),
	})
}

// View shows a single post. Unknown ids go back to the feed with a message.
func (p *PostController) View(ctx *gin.Context) {
	post, ok := p.lookup(ctx)
	if !ok {
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "post.html", gin.H{
		"Title":   post.Title,
		"Post":    post,
		"CanEdit": post.Author == middleware.CurrentUser(ctx),
		// the recorder counts this request after the page renders
		"Views": middleware.PageViews(ctx.Request.URL.Path) + 1,
	})
}

// New renders the post creation form.
func (p *PostController) New(ctx *gin.Context) {
	utils.RenderPage(ctx, http.StatusOK, "new.html", gin.H{"Title": "New post"})
}

// Add creates a post from the submitted form and optional image.
func (p *PostController) Add(ctx *gin.Context) {
	image, err := p.images.save(ctx, "image")
	if err != nil {
		utils.Text(ctx, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}

	post, err := p.posts.Create(ctx.PostForm("title"), ctx.PostForm("content"), image, middleware.CurrentUser(ctx))
	if err != nil {
		p.images.remove(image)
		p.fail(ctx, err, "create post")
		return
	}

	utils.Logger.Info("post created", zap.Int("id", post.ID), zap.String("author", post.Author))
	utils.AddFlash(ctx, "Post created.")
	utils.SeeOther(ctx, "/")
}

// EditForm renders the edit page for the post owner.
func (p *PostController) EditForm(ctx *gin.Context) {
	post, ok := p.lookupOwned(ctx)
	if !ok {
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "edit.html", gin.H{
		"Title": "Edit " + post.Title,
		"Post":  post,
	})
}

// Edit applies the submitted changes to an owned post.
func (p *PostController) Edit(ctx *gin.Context) {
	post, ok := p.lookupOwned(ctx)
	if !ok {
		return
	}

	image, err := p.images.save(ctx, "newImage")
	if err != nil {
		utils.Text(ctx, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}

	_, err = p.posts.Update(services.UpdateInput{
		ID:           post.ID,
		Title:        ctx.PostForm("title"),
		Content:      ctx.PostForm("content"),
		NewImage:     image,
		CurrentImage: ctx.PostForm("currentImage"),
		Identity:     middleware.CurrentUser(ctx),
	})
	if err != nil {
		p.images.remove(image)
		p.fail(ctx, err, "update post")
		return
	}

	utils.AddFlash(ctx, "Post updated.")
	utils.SeeOther(ctx, "/")
}

// Delete removes an owned post.
func (p *PostController) Delete(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		p.notFound(ctx)
		return
	}

	removed, err := p.posts.Delete(id, middleware.CurrentUser(ctx))
	if err != nil {
		p.fail(ctx, err, "delete post")
		return
	}
	if !removed {
		p.notFound(ctx)
		return
	}

	utils.Logger.Info("post deleted", zap.Int("id", id), zap.String("author", middleware.CurrentUser(ctx)))
	utils.AddFlash(ctx, "Post deleted.")
	utils.SeeOther(ctx, "/")
}

func (p *PostController) lookup(ctx *gin.Context) (models.Post, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		p.notFound(ctx)
		return models.Post{}, false
	}
	post, err := p.posts.Get(id)
	if err != nil {
		p.notFound(ctx)
		return models.Post{}, false
	}
	return post, true
}

func (p *PostController) lookupOwned(ctx *gin.Context) (models.Post, bool) {
	post, ok := p.lookup(ctx)
	if !ok {
		return models.Post{}, false
	}
	if err := services.RequireOwnership(post, middleware.CurrentUser(ctx)); err != nil {
		p.fail(ctx, err, "authorize")
		return models.Post{}, false
	}
	return post, true
}

func (p *PostController) notFound(ctx *gin.Context) {
	utils.AddFlash(ctx, "Post not found.")
	utils.SeeOther(ctx, "/")
}

// fail maps service errors onto responses.
func (p *PostController) fail(ctx *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.RenderError(ctx, http.StatusForbidden, "You can only modify your own posts.")
	case errors.Is(err, services.ErrPostNotFound):
		p.notFound(ctx)
	case errors.Is(err, services.ErrInvalidInput):
		utils.Text(ctx, http.StatusBadRequest, "invalid input")
	default:
		utils.Logger.Error(action+" failed", zap.String("path", ctx.Request.URL.Path), zap.Error(err))
		utils.RenderError(ctx, http.StatusInternalServerError, "Something went wrong, please try again.")
	}
}

func nextPage(feed services.Feed) int {
	if feed.Page >= feed.TotalPages {
		return 0
	}
	return feed.Page + 1
}
