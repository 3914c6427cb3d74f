package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/coursehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleService_List(t *testing.T) {
	tests := []struct {
		name             string
		principal        models.Principal
		expectInstructor bool
		expectStudent    bool
	}{
		{name: "admin unfiltered", principal: admin},
		{name: "instructor by courses taught", principal: instructor, expectInstructor: true},
		{name: "student by enrollments", principal: student, expectStudent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modules := &mockModuleRepository{modules: []models.Module{{ID: 11}}}
			svc := NewModuleService(&mockCourseRepository{}, modules, &mockLessonRepository{}, &mockEnrollmentRepository{}, &mockProgressRepository{})

			list, err := svc.List(context.Background(), tt.principal)

			require.NoError(t, err)
			assert.Len(t, list, 1)
			assert.Nil(t, modules.lastFilter.CourseID)
			if tt.expectInstructor {
				require.NotNil(t, modules.lastFilter.InstructorID)
				assert.Equal(t, tt.principal.UserID, *modules.lastFilter.InstructorID)
			} else {
				assert.Nil(t, modules.lastFilter.InstructorID)
			}
			if tt.expectStudent {
				require.NotNil(t, modules.lastFilter.StudentID)
				assert.Equal(t, tt.principal.UserID, *modules.lastFilter.StudentID)
			} else {
				assert.Nil(t, modules.lastFilter.StudentID)
			}
		})
	}
}

func TestModuleService_Get(t *testing.T) {
	published := &models.Ownership{CourseID: 1, InstructorID: 2, IsPublished: true}
	draft := &models.Ownership{CourseID: 1, InstructorID: 2}

	tests := []struct {
		name          string
		principal     models.Principal
		owner         *models.Ownership
		ownerErr      error
		enrollment    *models.Enrollment
		errorContains string
	}{
		{name: "enrolled student", principal: student, owner: published, enrollment: &models.Enrollment{ID: 40}},
		{name: "student not enrolled", principal: student, owner: published, errorContains: "module not found"},
		{name: "enrolled student on draft course", principal: student, owner: draft, enrollment: &models.Enrollment{ID: 40}, errorContains: "module not found"},
		{name: "owner on draft course", principal: instructor, owner: draft},
		{name: "other instructor on draft course", principal: otherTutor, owner: draft, errorContains: "module not found"},
		{name: "other instructor on published course", principal: otherTutor, owner: published},
		{name: "admin", principal: admin, owner: draft},
		{name: "missing module", principal: admin, ownerErr: fmt.Errorf("module %w", models.ErrNotFound), errorContains: "module not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewModuleService(
				&mockCourseRepository{owner: tt.owner, ownerErr: tt.ownerErr},
				&mockModuleRepository{module: &models.Module{ID: 11, CourseID: 1, Title: "Intro", Order: 1}},
				&mockLessonRepository{lessons: []models.Lesson{{ID: 21, ModuleID: 11}, {ID: 22, ModuleID: 11}}},
				&mockEnrollmentRepository{enrollment: tt.enrollment},
				&mockProgressRepository{completedIDs: map[int]bool{22: true}},
			)

			detail, err := svc.Get(context.Background(), tt.principal, 11)

			if tt.errorContains != "" {
				assert.ErrorIs(t, err, models.ErrNotFound)
				assert.Equal(t, tt.errorContains, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Intro", detail.Title)
			require.Len(t, detail.Lessons, 2)
			if tt.principal.IsStudent() {
				assert.False(t, detail.Lessons[0].Completed)
				assert.True(t, detail.Lessons[1].Completed)
			} else {
				assert.False(t, detail.Lessons[1].Completed)
			}
		})
	}
}

func TestModuleService_Create(t *testing.T) {
	validReq := func() *models.CreateModuleRequest {
		return &models.CreateModuleRequest{CourseID: 1, Title: "Intro", Order: 1}
	}

	tests := []struct {
		name          string
		principal     models.Principal
		req           *models.CreateModuleRequest
		courseErr     error
		createErr     error
		expectedError error
		expectedField string
	}{
		{name: "owner creates", principal: instructor, req: validReq()},
		{name: "other instructor", principal: otherTutor, req: validReq(), expectedError: models.ErrForbidden},
		{name: "student", principal: student, req: validReq(), expectedError: models.ErrForbidden},
		{name: "admin", principal: admin, req: validReq(), expectedError: models.ErrForbidden},
		{name: "missing course", principal: instructor, req: validReq(), courseErr: fmt.Errorf("course %w", models.ErrNotFound), expectedError: models.ErrNotFound},
		{
			name:          "order taken",
			principal:     instructor,
			req:           validReq(),
			createErr:     fmt.Errorf("module order 1 is taken: %w", models.ErrDuplicate),
			expectedError: models.ErrValidation,
			expectedField: "order",
		},
		{
			name:          "zero order",
			principal:     instructor,
			req:           &models.CreateModuleRequest{CourseID: 1, Title: "Intro"},
			expectedError: models.ErrValidation,
			expectedField: "order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewModuleService(
				&mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}, err: tt.courseErr},
				&mockModuleRepository{createErr: tt.createErr},
				&mockLessonRepository{},
				&mockEnrollmentRepository{},
				&mockProgressRepository{},
			)

			module, err := svc.Create(context.Background(), tt.principal, tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedField != "" {
					var vErr *models.ValidationError
					require.ErrorAs(t, err, &vErr)
					assert.Contains(t, vErr.Fields, tt.expectedField)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 20, module.ID)
			assert.Equal(t, 1, module.CourseID)
			assert.Equal(t, 1, module.Order)
		})
	}
}

func TestModuleService_Update(t *testing.T) {
	order := 2

	tests := []struct {
		name          string
		principal     models.Principal
		updateErr     error
		expectedError error
	}{
		{name: "owner", principal: instructor},
		{name: "other instructor", principal: otherTutor, expectedError: models.ErrForbidden},
		{name: "order taken", principal: instructor, updateErr: models.ErrDuplicate, expectedError: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewModuleService(
				&mockCourseRepository{owner: &models.Ownership{CourseID: 1, InstructorID: 2}},
				&mockModuleRepository{module: &models.Module{ID: 11, Order: 2}, updateErr: tt.updateErr},
				&mockLessonRepository{},
				&mockEnrollmentRepository{},
				&mockProgressRepository{},
			)

			module, err := svc.Update(context.Background(), tt.principal, 11, &models.UpdateModuleRequest{Order: &order})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, module.Order)
		})
	}
}

func TestModuleService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		principal     models.Principal
		expectedError error
	}{
		{name: "owner", principal: instructor},
		{name: "other instructor", principal: otherTutor, expectedError: models.ErrForbidden},
		{name: "student", principal: student, expectedError: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modules := &mockModuleRepository{}
			svc := NewModuleService(
				&mockCourseRepository{owner: &models.Ownership{CourseID: 1, InstructorID: 2}},
				modules,
				&mockLessonRepository{},
				&mockEnrollmentRepository{},
				&mockProgressRepository{},
			)

			err := svc.Delete(context.Background(), tt.principal, 11)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, modules.deletedID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 11, modules.deletedID)
		})
	}
}
