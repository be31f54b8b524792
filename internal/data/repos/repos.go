package repos

import (
	"github.com/yungbote/learnpath-backend/internal/data/repos/catalog"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ResourceRepo = catalog.ResourceRepo
type ResourceFilter = catalog.ResourceFilter
type LearningStatementRepo = catalog.LearningStatementRepo
type ContentProviderRepo = catalog.ContentProviderRepo
type EngineStore = catalog.EngineStore

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return catalog.NewResourceRepo(db, baseLog)
}
func NewLearningStatementRepo(db *gorm.DB, baseLog *logger.Logger) LearningStatementRepo {
	return catalog.NewLearningStatementRepo(db, baseLog)
}
func NewContentProviderRepo(db *gorm.DB, baseLog *logger.Logger) ContentProviderRepo {
	return catalog.NewContentProviderRepo(db, baseLog)
}
func NewEngineStore(resources ResourceRepo, statements LearningStatementRepo) *EngineStore {
	return catalog.NewEngineStore(resources, statements)
}
