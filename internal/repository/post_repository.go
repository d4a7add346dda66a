package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-blog/internal/model"
)

// PostRepository 帖子仓储；每种列表一对 Count/List，供分页组合
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Post, error)

	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]*model.Post, error)

	CountByGroup(ctx context.Context, groupID string) (int64, error)
	ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*model.Post, error)

	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error)

	CountByAuthors(ctx context.Context, authorIDs []string) (int64, error)
	ListByAuthors(ctx context.Context, authorIDs []string, offset, limit int) ([]*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// Update 只写可编辑字段；作者与发布时间保持不变
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", p.ID).Updates(map[string]any{
		"text":     p.Text,
		"group_id": p.GroupID,
		"image":    p.Image,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 在一个事务内删除帖子及其评论
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Preload("Author").Preload("Group").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Scopes(scope).Count(&cnt).Error
	return cnt, err
}

// list 新帖在前；同一时刻按 id 兜底保证翻页稳定
func (r *postRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func all(db *gorm.DB) *gorm.DB { return db }

func byGroup(groupID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("group_id = ?", groupID) }
}

func byAuthor(authorID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("author_id = ?", authorID) }
}

func byAuthors(authorIDs []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("author_id IN ?", authorIDs) }
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, all)
}

func (r *postRepository) ListAll(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	return r.list(ctx, all, offset, limit)
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	return r.count(ctx, byGroup(groupID))
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*model.Post, error) {
	return r.list(ctx, byGroup(groupID), offset, limit)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.count(ctx, byAuthor(authorID))
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	return r.list(ctx, byAuthor(authorID), offset, limit)
}

func (r *postRepository) CountByAuthors(ctx context.Context, authorIDs []string) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	return r.count(ctx, byAuthors(authorIDs))
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []string, offset, limit int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}
	return r.list(ctx, byAuthors(authorIDs), offset, limit)
}
