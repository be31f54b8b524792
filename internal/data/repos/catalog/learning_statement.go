package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type LearningStatementRepo interface {
	Create(dbc dbctx.Context, statements []*types.LearningStatement) ([]*types.LearningStatement, error)
	Update(dbc dbctx.Context, statement *types.LearningStatement) error
	ListByResourceIDs(dbc dbctx.Context, resourceIDs []uuid.UUID, role string) ([]*types.LearningStatement, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FindResourceIDsWithSignature(dbc dbctx.Context, role string, sig types.Signature) ([]uuid.UUID, error)
}

type learningStatementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningStatementRepo(db *gorm.DB, baseLog *logger.Logger) LearningStatementRepo {
	repoLog := baseLog.With("repo", "LearningStatementRepo")
	return &learningStatementRepo{db: db, log: repoLog}
}

func (r *learningStatementRepo) Create(dbc dbctx.Context, statements []*types.LearningStatement) ([]*types.LearningStatement, error) {
	if len(statements) == 0 {
		return []*types.LearningStatement{}, nil
	}
	if err := dbc.DB(r.db).Omit("Resource").Create(&statements).Error; err != nil {
		return nil, MapError("create learning statements", err)
	}
	return statements, nil
}

func (r *learningStatementRepo) Update(dbc dbctx.Context, statement *types.LearningStatement) error {
	if statement == nil || statement.ID == uuid.Nil {
		return MapError("update learning statement", pkgerrors.ErrInvalidArgument)
	}
	res := dbc.DB(r.db).
		Model(&types.LearningStatement{}).
		Where("id = ?", statement.ID).
		Updates(map[string]interface{}{
			"noun":     statement.Noun,
			"verb":     statement.Verb,
			"position": statement.Position,
		})
	if res.Error != nil {
		return MapError("update learning statement", res.Error)
	}
	if res.RowsAffected == 0 {
		return MapError("update learning statement", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListByResourceIDs returns statements ordered by resource, then declared
// position. An empty role returns both outcomes and prerequisites.
func (r *learningStatementRepo) ListByResourceIDs(dbc dbctx.Context, resourceIDs []uuid.UUID, role string) ([]*types.LearningStatement, error) {
	var results []*types.LearningStatement
	if len(resourceIDs) == 0 {
		return results, nil
	}
	q := dbc.DB(r.db).Where("resource_id IN ?", resourceIDs)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.
		Order("resource_id ASC, position ASC, created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, MapError("list learning statements", err)
	}
	return results, nil
}

func (r *learningStatementRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&types.LearningStatement{}).Error; err != nil {
		return MapError("delete learning statements", err)
	}
	return nil
}

// FindResourceIDsWithSignature returns the ids of live resources carrying a
// statement with exactly this signature, oldest resource first.
func (r *learningStatementRepo) FindResourceIDsWithSignature(dbc dbctx.Context, role string, sig types.Signature) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if !sig.Valid() {
		return ids, MapError("find resources with signature", pkgerrors.ErrInvalidArgument)
	}
	tx := dbc.DB(r.db)
	sub := tx.Session(&gorm.Session{NewDB: true}).
		Model(&types.LearningStatement{}).
		Select("resource_id").
		Where("role = ? AND noun = ? AND verb = ?", role, sig.Noun, sig.Verb)
	if err := tx.
		Model(&types.Resource{}).
		Where("id IN (?)", sub).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, MapError("find resources with signature", err)
	}
	return ids, nil
}
