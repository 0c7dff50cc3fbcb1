package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	NetworkRepository   *NetworkRepository
	SessionRepository   *SessionRepository
	ReferenceRepository *ReferenceRepository
	CourseRepository    *CourseRepository
	SectionRepository   *SectionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		NetworkRepository:   NewNetworkRepository(db),
		SessionRepository:   NewSessionRepository(db),
		ReferenceRepository: NewReferenceRepository(db),
		CourseRepository:    NewCourseRepository(db),
		SectionRepository:   NewSectionRepository(db),
	}
}
