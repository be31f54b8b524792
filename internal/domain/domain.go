package domain

import "github.com/yungbote/learnpath-backend/internal/domain/catalog"

const (
	ResourceKindMaterial = catalog.ResourceKindMaterial
	ResourceKindEvent    = catalog.ResourceKindEvent

	StatementRoleOutcome      = catalog.StatementRoleOutcome
	StatementRolePrerequisite = catalog.StatementRolePrerequisite
)

type (
	Resource          = catalog.Resource
	LearningStatement = catalog.LearningStatement
	Signature         = catalog.Signature
	ContentProvider   = catalog.ContentProvider
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&ContentProvider{},
		&Resource{},
		&LearningStatement{},
	}
}
