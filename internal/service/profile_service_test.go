package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/storage"
)

type mockSeekerProfiles struct {
	mock.Mock
}

func (m *mockSeekerProfiles) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobSeeker), args.Error(1)
}

func (m *mockSeekerProfiles) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.JobSeekerProfileUpdate) (*models.JobSeeker, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobSeeker), args.Error(1)
}

func (m *mockSeekerProfiles) UpdatePhoto(ctx context.Context, id uuid.UUID, path string) (*string, error) {
	args := m.Called(ctx, id, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Save(ctx context.Context, folder, originalName string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, originalName, r)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Delete(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func TestProfileService_UploadPhotoReplacesPrevious(t *testing.T) {
	seekers := new(mockSeekerProfiles)
	images := new(mockImages)
	svc := NewProfileService(seekers, nil, images)
	actor := vo.Actor{ID: uuid.New(), Role: vo.RoleJobSeeker}
	previous := "perfis/old.png"

	images.On("Save", mock.Anything, storage.FolderProfiles, "foto.png", mock.Anything).Return("perfis/new.png", nil)
	seekers.On("UpdatePhoto", mock.Anything, actor.ID, "perfis/new.png").Return(&previous, nil)
	images.On("Delete", mock.Anything, previous).Return(nil)

	ref, err := svc.UploadJobSeekerPhoto(context.Background(), actor, "foto.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "perfis/new.png", ref)
	images.AssertExpectations(t)
	seekers.AssertExpectations(t)
}

func TestProfileService_UploadPhotoRemovesOrphanOnDBError(t *testing.T) {
	seekers := new(mockSeekerProfiles)
	images := new(mockImages)
	svc := NewProfileService(seekers, nil, images)
	actor := vo.Actor{ID: uuid.New(), Role: vo.RoleJobSeeker}

	images.On("Save", mock.Anything, storage.FolderProfiles, "foto.png", mock.Anything).Return("perfis/new.png", nil)
	seekers.On("UpdatePhoto", mock.Anything, actor.ID, "perfis/new.png").Return(nil, errors.New("db down"))
	images.On("Delete", mock.Anything, "perfis/new.png").Return(nil)

	_, err := svc.UploadJobSeekerPhoto(context.Background(), actor, "foto.png", strings.NewReader("png"))
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	images.AssertExpectations(t)
}

func TestProfileService_UploadRejectsUnsupportedType(t *testing.T) {
	images := new(mockImages)
	svc := NewProfileService(nil, nil, images)
	actor := vo.Actor{ID: uuid.New(), Role: vo.RoleCompany}

	images.On("Save", mock.Anything, storage.FolderLogos, "logo.pdf", mock.Anything).Return("", storage.ErrUnsupportedType)

	_, err := svc.UploadCompanyLogo(context.Background(), actor, "logo.pdf", strings.NewReader("%PDF"))
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UploadCompanyLogo(context.Background(), vo.Actor{ID: actor.ID, Role: vo.RoleJobSeeker}, "logo.png", strings.NewReader(""))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestProfileService_UpdateJobSeeker(t *testing.T) {
	seekers := new(mockSeekerProfiles)
	svc := NewProfileService(seekers, nil, nil)
	actor := vo.Actor{ID: uuid.New(), Role: vo.RoleJobSeeker}

	bio := "  Estudante de gastronomia  "
	empty := " "
	seekers.On("UpdateProfile", mock.Anything, actor.ID, mock.MatchedBy(func(u models.JobSeekerProfileUpdate) bool {
		return u.Name == "Ana Lima" && u.Bio != nil && *u.Bio == "Estudante de gastronomia" && u.PixKey == nil
	})).Return(&models.JobSeeker{ID: actor.ID, Name: "Ana Lima", RatingSum: 14, RatingCount: 3}, nil)

	profile, err := svc.UpdateJobSeeker(context.Background(), actor, UpdateJobSeekerInput{Name: " Ana Lima ", Bio: &bio, PixKey: &empty})
	require.NoError(t, err)
	assert.InDelta(t, 14.0/3.0, profile.Rating, 1e-9)

	badPhone := "123"
	_, err = svc.UpdateJobSeeker(context.Background(), actor, UpdateJobSeekerInput{Name: "Ana Lima", Phone: &badPhone})
	assert.True(t, apperror.IsValidation(err))
}
