package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type ResourceFilter struct {
	Kind              string
	ContentProviderID *uuid.UUID
	TitleQuery        string
	Limit             int
	Offset            int
}

type ResourceRepo interface {
	Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Resource, error)
	GetByTitle(dbc dbctx.Context, title string) (*types.Resource, error)
	List(dbc dbctx.Context, filter ResourceFilter) ([]*types.Resource, error)
	Update(dbc dbctx.Context, resource *types.Resource) error
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (r *resourceRepo) Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error) {
	if len(resources) == 0 {
		return []*types.Resource{}, nil
	}
	if err := dbc.DB(r.db).Omit("ContentProvider").Create(&resources).Error; err != nil {
		return nil, MapError("create resources", err)
	}
	return resources, nil
}

func (r *resourceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error) {
	if id == uuid.Nil {
		return nil, MapError("get resource", pkgerrors.ErrInvalidArgument)
	}
	var out types.Resource
	if err := dbc.DB(r.db).
		Preload("ContentProvider").
		Where("id = ?", id).
		First(&out).Error; err != nil {
		return nil, MapError("get resource", err)
	}
	return &out, nil
}

// GetByIDs returns the found resources in the order of ids. Missing ids are skipped.
func (r *resourceRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Resource, error) {
	var results []*types.Resource
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, MapError("get resources", err)
	}
	byID := make(map[uuid.UUID]*types.Resource, len(results))
	for _, res := range results {
		byID[res.ID] = res
	}
	ordered := make([]*types.Resource, 0, len(results))
	for _, id := range ids {
		if res, ok := byID[id]; ok {
			ordered = append(ordered, res)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *resourceRepo) GetByTitle(dbc dbctx.Context, title string) (*types.Resource, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, MapError("get resource by title", pkgerrors.ErrInvalidArgument)
	}
	var out types.Resource
	if err := dbc.DB(r.db).
		Where("title = ?", title).
		Order("created_at ASC, id ASC").
		First(&out).Error; err != nil {
		return nil, MapError("get resource by title", err)
	}
	return &out, nil
}

func (r *resourceRepo) List(dbc dbctx.Context, filter ResourceFilter) ([]*types.Resource, error) {
	q := dbc.DB(r.db).Model(&types.Resource{})
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if filter.ContentProviderID != nil && *filter.ContentProviderID != uuid.Nil {
		q = q.Where("content_provider_id = ?", *filter.ContentProviderID)
	}
	if tq := strings.TrimSpace(filter.TitleQuery); tq != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(tq)+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var results []*types.Resource
	if err := q.Order("created_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, MapError("list resources", err)
	}
	return results, nil
}

func (r *resourceRepo) Update(dbc dbctx.Context, resource *types.Resource) error {
	if resource == nil || resource.ID == uuid.Nil {
		return MapError("update resource", pkgerrors.ErrInvalidArgument)
	}
	res := dbc.DB(r.db).
		Model(&types.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]interface{}{
			"kind":                resource.Kind,
			"title":               resource.Title,
			"url":                 resource.URL,
			"short_description":   resource.ShortDescription,
			"long_description":    resource.LongDescription,
			"doi":                 resource.DOI,
			"keywords":            resource.Keywords,
			"metadata":            resource.Metadata,
			"content_provider_id": resource.ContentProviderID,
			"starts_at":           resource.StartsAt,
			"ends_at":             resource.EndsAt,
		})
	if res.Error != nil {
		return MapError("update resource", res.Error)
	}
	if res.RowsAffected == 0 {
		return MapError("update resource", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *resourceRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&types.Resource{}).Error; err != nil {
		return MapError("soft delete resources", err)
	}
	return nil
}

func (r *resourceRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	tx := dbc.DB(r.db)
	if err := tx.
		Where("resource_id IN ?", ids).
		Delete(&types.LearningStatement{}).Error; err != nil {
		return MapError("delete resource statements", err)
	}
	if err := tx.
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.Resource{}).Error; err != nil {
		return MapError("full delete resources", err)
	}
	return nil
}
