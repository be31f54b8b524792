package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Repos struct {
	Resource          repos.ResourceRepo
	LearningStatement repos.LearningStatementRepo
	ContentProvider   repos.ContentProviderRepo
	EngineStore       *repos.EngineStore
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	resource := repos.NewResourceRepo(db, log)
	statement := repos.NewLearningStatementRepo(db, log)
	return Repos{
		Resource:          resource,
		LearningStatement: statement,
		ContentProvider:   repos.NewContentProviderRepo(db, log),
		EngineStore:       repos.NewEngineStore(resource, statement),
	}
}
