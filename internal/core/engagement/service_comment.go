// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// maxCommentLength bounds comment and reply bodies.
const maxCommentLength = 5000

// CommentInput carries a new comment. Exactly one of MangaID and ChapterID is set.
type CommentInput struct {
	MangaID   string
	ChapterID string
	Content   string
}

// # Comment Retrieval

// ListComments returns the comments of a manga or chapter. Rejected comments
// are only listed for moderators.
func (service *Service) ListComments(context context.Context, caller sec.Caller, target CommentTarget) ([]*Comment, error) {
	if err := validateTarget(target.MangaID, target.ChapterID); err != nil {
		return nil, err
	}

	if err := service.checkTargetVisible(context, caller, target); err != nil {
		return nil, err
	}

	return service.comments.ListByTarget(context, target, caller.CanModerate())
}

// # Comment Mutations

/*
AddComment posts a comment on a manga or a chapter.

Description: The comment row and the parent's comment list are written in one
transaction.

Returns:
  - *Comment: The created comment
  - error: ValidationError, NotFound (target), Unauthorized
*/
func (service *Service) AddComment(ctx context.Context, caller sec.Caller, input CommentInput) (*Comment, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if err := validateTarget(input.MangaID, input.ChapterID); err != nil {
		return nil, err
	}

	if err := validateContent(input.Content); err != nil {
		return nil, err
	}

	target := CommentTarget{MangaID: input.MangaID, ChapterID: input.ChapterID}
	if err := service.checkTargetVisible(ctx, caller, target); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		MangaID:   input.MangaID,
		ChapterID: input.ChapterID,
		Content:   input.Content,
		Status:    CommentPending,
		Replies:   []Reply{},
		Likes:     []string{},
		Dislikes:  []string{},
	}

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		if err := service.comments.Create(txContext, comment); err != nil {
			return err
		}
		return service.catalog.AttachComment(txContext, comment.MangaID, comment.ChapterID, comment.ID)
	})
	if err != nil {
		return nil, err
	}

	service.invalidateParent(ctx, comment)

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("user_id", caller.UserID),
	)

	return comment, nil
}

// EditComment replaces the content of a comment. Only its author may edit it.
func (service *Service) EditComment(context context.Context, caller sec.Caller, commentID, content string) (*Comment, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := service.mutateComment(context, commentID, func(comment *Comment) error {
		if !caller.Owns(comment.UserID) {
			return apperr.Forbidden("Only the author can edit this comment")
		}
		comment.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("comment_edited", slog.String("comment_id", commentID))
	return comment, nil
}

/*
DeleteComment removes a comment and detaches it from its parent.

Description: The author and moderators may delete a comment. Anyone else gets
Forbidden.
*/
func (service *Service) DeleteComment(ctx context.Context, caller sec.Caller, commentID string) error {
	if err := requireUser(caller); err != nil {
		return err
	}

	var removed *Comment

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		comment, err := service.comments.LockByID(txContext, commentID)
		if err != nil {
			return err
		}

		if !caller.Owns(comment.UserID) && !caller.CanModerate() {
			return apperr.Forbidden("Only the author or a moderator can delete this comment")
		}

		removed = comment
		return service.removeComment(txContext, comment)
	})
	if err != nil {
		return err
	}

	service.invalidateParent(ctx, removed)

	service.logger.Info("comment_deleted",
		slog.String("comment_id", commentID),
		slog.String("deleted_by", caller.UserID),
	)

	return nil
}

/*
ModerateComment applies a moderator decision to a comment.

Description: Delete removes the comment and detaches it from its parent.
Approve and reject only set the status.

Returns:
  - *Comment: The moderated comment, nil after a delete
  - error: Forbidden for non-moderators, ValidationError, NotFound
*/
func (service *Service) ModerateComment(ctx context.Context, caller sec.Caller, commentID string, action ModerationAction) (*Comment, error) {
	if !caller.CanModerate() {
		return nil, apperr.Forbidden("Moderator role required")
	}

	if !action.IsValid() {
		return nil, validate.RequiredError(FieldAction, "Must be one of: approve, reject, delete")
	}

	var result, removed *Comment

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		comment, err := service.comments.LockByID(txContext, commentID)
		if err != nil {
			return err
		}

		switch action {
		case ModerationDelete:
			removed = comment
			return service.removeComment(txContext, comment)
		case ModerationApprove:
			comment.Status = CommentApproved
		case ModerationReject:
			comment.Status = CommentRejected
		}

		result = comment
		return service.comments.Update(txContext, comment)
	})
	if err != nil {
		return nil, err
	}

	service.invalidateParent(ctx, removed)

	service.logger.Info("comment_moderated",
		slog.String("comment_id", commentID),
		slog.String("action", string(action)),
		slog.String("moderator_id", caller.UserID),
	)

	return result, nil
}

// AddReply appends a reply to a comment. Replies keep insertion order.
func (service *Service) AddReply(context context.Context, caller sec.Caller, commentID, content string) (*Comment, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if err := validateContent(content); err != nil {
		return nil, err
	}

	return service.mutateComment(context, commentID, func(comment *Comment) error {
		comment.Replies = append(comment.Replies, Reply{
			UserID:    caller.UserID,
			Content:   content,
			CreatedAt: service.now(),
		})
		return nil
	})
}

// ToggleReaction flips the caller's like or dislike on a comment.
func (service *Service) ToggleReaction(context context.Context, caller sec.Caller, commentID string, reaction ReactionType) (*Comment, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.OneOf(FieldReaction, string(reaction), string(ReactionLike), string(ReactionDislike)).Err(); err != nil {
		return nil, err
	}

	return service.mutateComment(context, commentID, func(comment *Comment) error {
		comment.ToggleReaction(caller.UserID, reaction)
		return nil
	})
}

// # Internal Helpers

// mutateComment edits a comment under its row lock.
func (service *Service) mutateComment(ctx context.Context, commentID string, edit func(comment *Comment) error) (*Comment, error) {
	var result *Comment

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		comment, err := service.comments.LockByID(txContext, commentID)
		if err != nil {
			return err
		}

		if err := edit(comment); err != nil {
			return err
		}

		result = comment
		return service.comments.Update(txContext, comment)
	})

	return result, err
}

// removeComment detaches a comment from its parent and deletes it.
func (service *Service) removeComment(context context.Context, comment *Comment) error {
	if err := service.catalog.DetachComment(context, comment.MangaID, comment.ChapterID, comment.ID); err != nil {
		return err
	}
	return service.comments.Delete(context, comment.ID)
}

// invalidateParent evicts a manga whose cached comment list changed.
func (service *Service) invalidateParent(context context.Context, comment *Comment) {
	if comment != nil && comment.MangaID != "" {
		service.catalog.Invalidate(context, comment.MangaID)
	}
}

// checkTargetVisible hides comments on manga the caller cannot see.
func (service *Service) checkTargetVisible(context context.Context, caller sec.Caller, target CommentTarget) error {
	mangaID := target.MangaID

	if target.ChapterID != "" {
		chapter, err := service.catalog.FindChapter(context, target.ChapterID)
		if err != nil {
			return err
		}
		mangaID = chapter.MangaID
	}

	_, err := service.visibleManga(context, caller, mangaID)
	return err
}

func validateTarget(mangaID, chapterID string) error {
	validator := &validate.Validator{}
	validator.Custom(FieldTarget, (mangaID == "") == (chapterID == ""), "Exactly one of manga_id and chapter_id is required")
	return validator.Err()
}

func validateContent(content string) error {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content)
	validator.MaxLen(FieldContent, content, maxCommentLength)
	return validator.Err()
}
