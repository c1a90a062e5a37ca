package services

import (
	"fmt"
	"testing"

	"github.com/cppla/inkwell/models"
)

func makePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{ID: i + 1, Title: fmt.Sprintf("Post %d", i+1), Content: "body", Author: "alice"}
	}
	return posts
}

func TestSearch(t *testing.T) {
	posts := []models.Post{
		{ID: 1, Title: "Greetings", Content: "say hello world"},
		{ID: 2, Title: "Go tips", Content: "use gofmt"},
		{ID: 3, Title: "HELLO again", Content: "second"},
		{ID: 4, Title: "Quotes", Content: `Don't say "Tom & Jerry" if a < b`},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "empty query matches all", query: "", wantIDs: []int{1, 2, 3, 4}},
		{name: "case-insensitive content match", query: "HELLO", wantIDs: []int{1, 3}},
		{name: "title match", query: "go tips", wantIDs: []int{2}},
		{name: "no match", query: "rust", wantIDs: nil},
		{name: "substring inside word", query: "fmt", wantIDs: []int{2}},
		{name: "apostrophe", query: "DON'T", wantIDs: []int{4}},
		{name: "double quote", query: `"tom`, wantIDs: []int{4}},
		{name: "ampersand", query: "tom & jerry", wantIDs: []int{4}},
		{name: "less than", query: "a < b", wantIDs: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(posts, tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d (%+v)", len(got), len(tt.wantIDs), got)
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	posts := makePosts(14)

	tests := []struct {
		name      string
		page      int
		wantFirst int
		wantLen   int
	}{
		{name: "first page", page: 1, wantFirst: 1, wantLen: 6},
		{name: "second page", page: 2, wantFirst: 7, wantLen: 6},
		{name: "partial last page", page: 3, wantFirst: 13, wantLen: 2},
		{name: "past the end", page: 4, wantLen: 0},
		{name: "zero treated as first", page: 0, wantFirst: 1, wantLen: 6},
		{name: "negative treated as first", page: -3, wantFirst: 1, wantLen: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(posts, tt.page, 6)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != tt.wantFirst {
				t.Errorf("first ID = %d, want %d", got[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestPaginate_AtMostPageSize(t *testing.T) {
	for n := 0; n <= 20; n++ {
		if got := Paginate(makePosts(n), 1, 6); len(got) > 6 {
			t.Errorf("n=%d: len = %d, want <= 6", n, len(got))
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{12, 6, 2},
		{13, 6, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}
