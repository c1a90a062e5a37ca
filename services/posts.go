package services

import (
	"errors"

	"github.com/cppla/inkwell/models"
	"github.com/cppla/inkwell/store"
)

// Feed is one page of the post listing.
type Feed struct {
	Posts      []models.Post
	Page       int
	TotalPages int
	Query      string
	Matched    int // posts matching Query across all pages
	Total      int // all posts
}

// FeedOptions tunes List.
type FeedOptions struct {
	PageSize int
	// TotalFromFiltered computes TotalPages from the matched count instead
	// of the count of all posts.
	TotalFromFiltered bool
}

// PostService implements listing and the authorization-gated CRUD flow for
// posts over a store collection.
type PostService struct {
	posts *store.Collection[models.Post]
	clock Clock
	opts  FeedOptions
}

// NewPostService creates a PostService.
func NewPostService(posts *store.Collection[models.Post], clock Clock, opts FeedOptions) *PostService {
	if clock == nil {
		clock = RealClock{}
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	return &PostService{posts: posts, clock: clock, opts: opts}
}

// List filters all posts by query and returns the requested page.
func (s *PostService) List(query string, page int) Feed {
	if page < 1 {
		page = 1
	}
	all := s.posts.Snapshot()
	matched := Search(all, query)

	count := len(all)
	if s.opts.TotalFromFiltered {
		count = len(matched)
	}

	return Feed{
		Posts:      Paginate(matched, page, s.opts.PageSize),
		Page:       page,
		TotalPages: TotalPages(count, s.opts.PageSize),
		Query:      query,
		Matched:    len(matched),
		Total:      len(all),
	}
}

// Get returns the post with id.
func (s *PostService) Get(id int) (models.Post, error) {
	for _, p := range s.posts.Snapshot() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, ErrPostNotFound
}

// Create appends a new post by author. The id is allocated inside the
// collection lock as max(existing ids)+1.
func (s *PostService) Create(title, content, image, author string) (models.Post, error) {
	if author == "" {
		return models.Post{}, ErrInvalidInput
	}

	var created models.Post
	err := s.posts.Mutate(func(posts []models.Post) ([]models.Post, bool, error) {
		created = models.Post{
			ID:      nextPostID(posts),
			Title:   title,
			Content: content,
			Image:   image,
			Date:    s.clock.Now(),
			Author:  author,
		}
		return append(posts, created), true, nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return created, nil
}

// UpdateInput carries the fields of an edit.
type UpdateInput struct {
	ID      int
	Title   string
	Content string
	// NewImage is the public path of a freshly uploaded image, if any.
	NewImage string
	// CurrentImage is the image the edit form was showing. It is only
	// honoured when it matches the stored image or is empty (removal).
	CurrentImage string
	Identity     string
}

// Update edits a post owned by in.Identity. Date and author never change.
func (s *PostService) Update(in UpdateInput) (models.Post, error) {
	var updated models.Post
	err := s.posts.Mutate(func(posts []models.Post) ([]models.Post, bool, error) {
		i := indexOf(posts, in.ID)
		if i < 0 {
			return nil, false, ErrPostNotFound
		}
		if err := RequireOwnership(posts[i], in.Identity); err != nil {
			return nil, false, err
		}

		p := &posts[i]
		p.Title = in.Title
		p.Content = in.Content
		switch {
		case in.NewImage != "":
			p.Image = in.NewImage
		case in.CurrentImage == "" || in.CurrentImage == p.Image:
			p.Image = in.CurrentImage
		}
		updated = *p
		return posts, true, nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return updated, nil
}

// Delete removes the post with id when identity owns it. The returned bool
// reports whether a post was removed.
func (s *PostService) Delete(id int, identity string) (bool, error) {
	removed := false
	err := s.posts.Mutate(func(posts []models.Post) ([]models.Post, bool, error) {
		i := indexOf(posts, id)
		if i < 0 {
			return nil, false, ErrPostNotFound
		}
		if err := RequireOwnership(posts[i], identity); err != nil {
			return nil, false, err
		}
		removed = true
		return append(posts[:i], posts[i+1:]...), true, nil
	})
	if errors.Is(err, ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return removed, nil
}

// ReferencedImages returns the set of image paths used by any post.
func (s *PostService) ReferencedImages() map[string]bool {
	refs := map[string]bool{}
	for _, p := range s.posts.Snapshot() {
		if p.Image != "" {
			refs[p.Image] = true
		}
	}
	return refs
}

func nextPostID(posts []models.Post) int {
	maxID := 0
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

func indexOf(posts []models.Post, id int) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
