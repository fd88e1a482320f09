package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"isitjustme/internal/models"
	"isitjustme/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewContentService(conn)
	author := createUser(t, conn, "author")

	before := time.Now()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: &author.ID,
		Title:    "  Is it just me?  ",
		Content:  "**bold** <script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Is it just me?", post.Title)
	assert.Contains(t, post.ContentHTML, "<strong>bold</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")
	assert.Zero(t, post.Upvotes)
	assert.Zero(t, post.Score)
	assert.False(t, post.CreatedAt.Before(before.Add(-time.Second)))
	assert.InDelta(t, utils.HotScore(0, 0, post.CreatedAt), post.HotScore, 1e-9)
}

func TestCreatePost_Validation(t *testing.T) {
	t.Parallel()
	svc := NewContentService(newTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"blank title", CreatePostInput{Title: "   "}},
		{"long title", CreatePostInput{Title: strings.Repeat("a", maxTitleLen+1)}},
		{"long content", CreatePostInput{Title: "ok", Content: strings.Repeat("a", maxContentLen+1)}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tc.in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestCreateComment(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewContentService(conn)
	ctx := context.Background()
	post := createPost(t, conn, nil, 0, 0)
	other := createPost(t, conn, nil, 0, 0)

	root, err := svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	assert.Nil(t, root.AuthorID)

	reply, err := svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, ParentID: &root.ID, Content: "reply"})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: 999, Content: "x"})
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: other.ID, ParentID: &root.ID, Content: "x"})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, ParentID: uintPtr(999), Content: "x"})
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, Content: " "})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestListPosts_Sorts(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewContentService(conn)
	ctx := context.Background()

	mk := func(title string, score int, hot float64, created time.Time) {
		p := models.Post{Title: title, Upvotes: score, Score: score, HotScore: hot, CreatedAt: created}
		require.NoError(t, conn.Create(&p).Error)
	}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mk("a", 50, 1.0, base)
	mk("b", 1, 3.0, base.Add(time.Hour))
	mk("c", 10, 2.0, base.Add(2*time.Hour))

	titles := func(posts []models.Post) []string {
		var out []string
		for _, p := range posts {
			out = append(out, p.Title)
		}
		return out
	}

	posts, err := svc.ListPosts(ctx, SortHot, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, titles(posts))

	posts, err = svc.ListPosts(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, titles(posts))

	posts, err = svc.ListPosts(ctx, SortNew, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, titles(posts))

	posts, err = svc.ListPosts(ctx, SortTop, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, titles(posts))

	_, err = svc.ListPosts(ctx, "random", 10)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestDeletePost_RemovesCommentsAndVotes(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	content := NewContentService(conn)
	votes := NewVoteService(conn, nil)
	ctx := context.Background()

	author := createUser(t, conn, "author")
	post := createPost(t, conn, &author.ID, 0, 0)
	keep := createPost(t, conn, &author.ID, 0, 0)
	comment := createComment(t, conn, post.ID, nil)

	castPost(t, votes, post.ID, models.VoteUp, Anonymous("a"))
	castPost(t, votes, keep.ID, models.VoteUp, Anonymous("a"))
	_, err := votes.CastVote(ctx, VoteRequest{TargetKind: models.TargetComment, TargetID: comment.ID, Value: models.VoteUp, Voter: Anonymous("a")})
	require.NoError(t, err)

	stranger := createUser(t, conn, "stranger")
	err = content.DeletePost(ctx, post.ID, stranger.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)

	require.NoError(t, content.DeletePost(ctx, post.ID, author.ID))
	assert.Equal(t, int64(1), countRows(t, conn, &models.Post{}))
	assert.Equal(t, int64(0), countRows(t, conn, &models.Comment{}))
	assert.Equal(t, int64(1), countRows(t, conn, &models.Vote{}))

	// cached karma keeps what was credited
	assert.Equal(t, 2, userKarma(t, conn, author.ID))

	err = content.DeletePost(ctx, post.ID, author.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)

	// voting on the deleted post now fails cleanly
	_, err = votes.CastVote(ctx, VoteRequest{TargetKind: models.TargetPost, TargetID: post.ID, Value: models.VoteUp, Voter: Anonymous("a")})
	assertAppErrorCode(t, err, models.CodeTargetNotFound)
}

func TestDeletePost_AnonymousPostIsForbidden(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	post := createPost(t, conn, nil, 0, 0)
	u := createUser(t, conn, "u")

	err := NewContentService(conn).DeletePost(context.Background(), post.ID, u.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestDeleteComment_RemovesReplyTree(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	content := NewContentService(conn)
	votes := NewVoteService(conn, nil)
	ctx := context.Background()

	author := createUser(t, conn, "author")
	post := createPost(t, conn, nil, 0, 0)
	root, err := content.CreateComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: &author.ID, Content: "root"})
	require.NoError(t, err)
	child, err := content.CreateComment(ctx, CreateCommentInput{PostID: post.ID, ParentID: &root.ID, Content: "child"})
	require.NoError(t, err)
	grandchild, err := content.CreateComment(ctx, CreateCommentInput{PostID: post.ID, ParentID: &child.ID, Content: "grandchild"})
	require.NoError(t, err)
	sibling, err := content.CreateComment(ctx, CreateCommentInput{PostID: post.ID, Content: "sibling"})
	require.NoError(t, err)

	for _, id := range []uint{root.ID, grandchild.ID, sibling.ID} {
		_, err := votes.CastVote(ctx, VoteRequest{TargetKind: models.TargetComment, TargetID: id, Value: models.VoteUp, Voter: Anonymous("a")})
		require.NoError(t, err)
	}

	err = content.DeleteComment(ctx, child.ID, author.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)

	require.NoError(t, content.DeleteComment(ctx, root.ID, author.ID))
	assert.Equal(t, int64(1), countRows(t, conn, &models.Comment{}))
	assert.Equal(t, int64(1), countRows(t, conn, &models.Vote{}))
	assert.Equal(t, 1, reloadComment(t, conn, sibling.ID).Score)

	err = content.DeleteComment(ctx, root.ID, author.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
