package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

type feedService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFeedService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) FeedService {
	return &feedService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== FEED OPERATIONS =====

func (s *feedService) List(ctx context.Context, filters repositories.PostFilters, viewerID string) (*FeedResponse, error) {
	posts, total, err := s.repo.Post().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]*PostResponse, len(posts))
	for i, p := range posts {
		out[i] = &PostResponse{Post: p, Liked: p.LikedByUser(viewerID)}
	}
	return &FeedResponse{Posts: out, Total: total}, nil
}

func (s *feedService) Create(ctx context.Context, req *CreatePostRequest, authorID string) (*PostResponse, error) {
	s.logger.Info("Creating post", "author_id", authorID, "type", req.Type)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
		Type:     req.Type,
		LikedBy:  datatypes.NewJSONSlice([]string{}),
	}
	if err := s.repo.Post().Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created, err := s.repo.Post().GetByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created post: %w", err)
	}

	s.logger.Info("Post created", "post_id", created.ID)
	return &PostResponse{Post: created}, nil
}

func (s *feedService) Delete(ctx context.Context, postID uint, userID string) error {
	post, err := s.repo.Post().GetByID(ctx, postID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}

	if post.AuthorID != userID {
		return NewPermissionError(userID, postID, "post", "delete", "not the author")
	}

	if err := s.repo.Post().Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("Post deleted", "post_id", postID, "user_id", userID)
	return nil
}

// ToggleLike flips the viewer's like on a post. Likes stays equal to
// len(LikedBy) in both directions.
func (s *feedService) ToggleLike(ctx context.Context, postID uint, userID string) (*PostResponse, error) {
	post, err := s.repo.Post().GetByID(ctx, postID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	likedBy := []string(post.LikedBy)
	if post.LikedByUser(userID) {
		likedBy = removeString(likedBy, userID)
	} else {
		likedBy = append(likedBy, userID)
	}

	post.LikedBy = datatypes.NewJSONSlice(likedBy)
	post.Likes = len(likedBy)

	if err := s.repo.Post().Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post likes: %w", err)
	}

	return &PostResponse{Post: post, Liked: post.LikedByUser(userID)}, nil
}

// ===== FOLLOW GRAPH =====

func (s *feedService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot follow yourself")
	}
	return s.setFollowing(ctx, followerID, followeeID, true)
}

func (s *feedService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.setFollowing(ctx, followerID, followeeID, false)
}

// setFollowing updates both sides of the follow edge inside one
// transaction so the two lists never drift.
func (s *feedService) setFollowing(ctx context.Context, followerID, followeeID string, follow bool) error {
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		follower, err := tx.Profile().GetByID(ctx, followerID)
		if err != nil {
			return fmt.Errorf("failed to load follower: %w", err)
		}
		followee, err := tx.Profile().GetByID(ctx, followeeID)
		if err != nil {
			return fmt.Errorf("failed to load followee: %w", err)
		}

		following := []string(follower.Following)
		followers := []string(followee.Followers)
		if follow {
			following = appendUnique(following, followeeID)
			followers = appendUnique(followers, followerID)
		} else {
			following = removeString(following, followeeID)
			followers = removeString(followers, followerID)
		}

		if err := tx.Profile().Merge(ctx, followerID, &models.ProfileUpdate{Following: following}); err != nil {
			return fmt.Errorf("failed to update follower list: %w", err)
		}
		if err := tx.Profile().Merge(ctx, followeeID, &models.ProfileUpdate{Followers: followers}); err != nil {
			return fmt.Errorf("failed to update followee list: %w", err)
		}
		return nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return err
	}

	s.logger.Info("Follow edge updated",
		"follower_id", followerID,
		"followee_id", followeeID,
		"follow", follow)
	return nil
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
