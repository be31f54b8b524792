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

type ContentProviderRepo interface {
	Create(dbc dbctx.Context, providers []*types.ContentProvider) ([]*types.ContentProvider, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ContentProvider, error)
	GetOrCreateByTitle(dbc dbctx.Context, title, url string) (*types.ContentProvider, error)
}

type contentProviderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentProviderRepo(db *gorm.DB, baseLog *logger.Logger) ContentProviderRepo {
	repoLog := baseLog.With("repo", "ContentProviderRepo")
	return &contentProviderRepo{db: db, log: repoLog}
}

func (r *contentProviderRepo) Create(dbc dbctx.Context, providers []*types.ContentProvider) ([]*types.ContentProvider, error) {
	if len(providers) == 0 {
		return []*types.ContentProvider{}, nil
	}
	if err := dbc.DB(r.db).Create(&providers).Error; err != nil {
		return nil, MapError("create content providers", err)
	}
	return providers, nil
}

func (r *contentProviderRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ContentProvider, error) {
	var results []*types.ContentProvider
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, MapError("get content providers", err)
	}
	return results, nil
}

func (r *contentProviderRepo) GetOrCreateByTitle(dbc dbctx.Context, title, url string) (*types.ContentProvider, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, MapError("get content provider", pkgerrors.ErrInvalidArgument)
	}
	out := types.ContentProvider{Title: title, URL: strings.TrimSpace(url)}
	if err := dbc.DB(r.db).
		Where("title = ?", title).
		FirstOrCreate(&out).Error; err != nil {
		return nil, MapError("get or create content provider", err)
	}
	return &out, nil
}
