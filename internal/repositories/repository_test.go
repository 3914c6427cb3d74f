package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var dbCounter atomic.Int64

// newTestDB opens a migrated in-memory SQLite database private to the test
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&_pragma=foreign_keys(1)&_time_format=sqlite", name, dbCounter.Add(1))

	db, err := database.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, config.DriverSQLite))

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// fixture holds one instructor, one student and a published course with
// one module of two lessons
type fixture struct {
	instructor *models.User
	student    *models.User
	course     *models.Course
	module     *models.Module
	lessons    []*models.Lesson
}

func seedFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	users := NewUserRepository(db, zap.NewNop())
	instructor := &models.User{Email: "instructor@example.com", FirstName: "Ada", LastName: "Lovelace", PasswordHash: "hash", Role: models.RoleInstructor, CreatedAt: now}
	require.NoError(t, users.Create(ctx, instructor))
	student := &models.User{Email: "student@example.com", FullName: "Grace Hopper", PasswordHash: "hash", Role: models.RoleStudent, CreatedAt: now}
	require.NoError(t, users.Create(ctx, student))

	course := &models.Course{Title: "Go Basics", Description: "Intro", InstructorID: instructor.ID, IsPublished: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewCourseRepository(db).Create(ctx, course))

	module := &models.Module{CourseID: course.ID, Title: "Syntax", Order: 1}
	require.NoError(t, NewModuleRepository(db).Create(ctx, module))

	lessonRepo := NewLessonRepository(db)
	var lessons []*models.Lesson
	for i := 1; i <= 2; i++ {
		lesson := &models.Lesson{ModuleID: module.ID, Title: fmt.Sprintf("Lesson %d", i), ContentType: models.ContentTypeText, Content: "text", Order: i}
		require.NoError(t, lessonRepo.Create(ctx, lesson))
		lessons = append(lessons, lesson)
	}

	return &fixture{
		instructor: instructor,
		student:    student,
		course:     course,
		module:     module,
		lessons:    lessons,
	}
}
