package service

import (
	"context"
	"errors"
	"testing"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
)

func TestPostLikeToggle(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb, repository.NewPostRepository(gdb), newMemStore())
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	bob := seedUser(t, gdb, "bob", model.RoleUser)
	ctx := context.Background()

	post, err := svc.Create(ctx, alice.ID, "Moving out sale", "Everything must go this weekend.", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, count, err := svc.ToggleLike(ctx, post.ID, bob.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !liked || count != 1 {
		t.Fatalf("liked=%v count=%d want true/1", liked, count)
	}

	liked, count, err = svc.ToggleLike(ctx, post.ID, alice.ID)
	if err != nil {
		t.Fatalf("second liker: %v", err)
	}
	if !liked || count != 2 {
		t.Fatalf("liked=%v count=%d want true/2", liked, count)
	}

	liked, count, err = svc.ToggleLike(ctx, post.ID, bob.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if liked || count != 1 {
		t.Fatalf("liked=%v count=%d want false/1", liked, count)
	}

	if _, _, err := svc.ToggleLike(ctx, 99999, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post err=%v want ErrNotFound", err)
	}
}

// Each toggle must report the count its own transaction produced, so four
// simultaneous likers see four distinct counts rather than all seeing the
// final total.
func TestPostLikeCountConcurrentLikers(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb, repository.NewPostRepository(gdb), newMemStore())
	author := seedUser(t, gdb, "author", model.RoleUser)
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, "Free shelf", "First come, first served.", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	likers := []*model.User{
		seedUser(t, gdb, "liker1", model.RoleUser),
		seedUser(t, gdb, "liker2", model.RoleUser),
		seedUser(t, gdb, "liker3", model.RoleUser),
		seedUser(t, gdb, "liker4", model.RoleUser),
	}

	type outcome struct {
		count int
		err   error
	}
	results := make(chan outcome, len(likers))
	for _, u := range likers {
		go func(userID uint64) {
			_, count, err := svc.ToggleLike(ctx, post.ID, userID)
			results <- outcome{count: count, err: err}
		}(u.ID)
	}

	seen := make(map[int]bool)
	for range likers {
		r := <-results
		if r.err != nil {
			t.Fatalf("toggle: %v", r.err)
		}
		if r.count < 1 || r.count > len(likers) || seen[r.count] {
			t.Fatalf("count %d repeated or out of range (seen=%v)", r.count, seen)
		}
		seen[r.count] = true
	}

	got, err := svc.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LikeCount != len(likers) {
		t.Fatalf("likeCount=%d want %d", got.LikeCount, len(likers))
	}
}

func TestPostDelete(t *testing.T) {
	gdb := newTestDB(t)
	store := newMemStore()
	svc := NewPostService(gdb, repository.NewPostRepository(gdb), store)
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	bob := seedUser(t, gdb, "bob", model.RoleUser)
	ctx := context.Background()

	post, err := svc.Create(ctx, alice.ID, "Free couch", "Pick up at building C.", []ImageUpload{pngUpload("couch")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.ToggleLike(ctx, post.ID, bob.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.AddComment(ctx, post.ID, bob.ID, "Still available?"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := svc.Delete(ctx, post.ID, bob.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete err=%v want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, post.ID, alice.ID, false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err=%v want ErrNotFound", err)
	}

	// likes, comments, image rows and files all go with the post
	var likes, comments, images int64
	gdb.Model(&model.PostLike{}).Count(&likes)
	gdb.Model(&model.Comment{}).Count(&comments)
	gdb.Model(&model.PostImage{}).Count(&images)
	if likes != 0 || comments != 0 || images != 0 {
		t.Fatalf("leftover rows after delete: likes=%d comments=%d images=%d", likes, comments, images)
	}
	if store.count() != 0 {
		t.Fatalf("%d files left after delete", store.count())
	}
}

func TestPostCreateValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb, repository.NewPostRepository(gdb), newMemStore())
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	ctx := context.Background()

	tenImages := make([]ImageUpload, 10)
	for i := range tenImages {
		tenImages[i] = pngUpload(string(rune('a' + i)))
	}

	tests := []struct {
		name    string
		title   string
		content string
		images  []ImageUpload
	}{
		{"empty title", "", "body", nil},
		{"empty content", "title", "", nil},
		{"too many images", "title", "body", tenImages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, alice.ID, tt.title, tt.content, tt.images); !errors.Is(err, ErrValidation) {
				t.Fatalf("err=%v want ErrValidation", err)
			}
		})
	}
}
