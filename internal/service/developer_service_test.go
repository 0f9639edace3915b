package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeveloperCodeService_Generate(t *testing.T) {
	issuerID := uuid.New()

	t.Run("rejects callers below developer", func(t *testing.T) {
		codes := new(MockCodeRepository)
		svc := NewDeveloperCodeService(codes, nil, nil, fixedClock{}, "")

		_, err := svc.Generate(context.Background(), issuerID, entity.RoleUser, GenerateInput{})

		assert.ErrorIs(t, err, ErrInsufficientPrivilege)
		codes.AssertNotCalled(t, "Create")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		codes := new(MockCodeRepository)
		svc := NewDeveloperCodeService(codes, nil, nil, fixedClock{}, "")

		_, err := svc.Generate(context.Background(), issuerID, entity.RoleRoot, GenerateInput{Level: "superuser"})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("defaults to one developer code", func(t *testing.T) {
		codes := new(MockCodeRepository)
		var created []*entity.DeveloperCode
		codes.On("Create", mock.Anything, mock.AnythingOfType("*entity.DeveloperCode")).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*entity.DeveloperCode))
			}).
			Return(nil)
		svc := NewDeveloperCodeService(codes, nil, nil, fixedClock{}, "")

		values, err := svc.Generate(context.Background(), issuerID, entity.RoleDeveloper, GenerateInput{})

		require.NoError(t, err)
		require.Len(t, values, 1)
		require.Len(t, created, 1)
		assert.Equal(t, entity.CodeLevelDeveloper, created[0].Level)
		assert.True(t, created[0].IsActive)
		require.NotNil(t, created[0].MaxGenerations)
		assert.Equal(t, 1, *created[0].MaxGenerations)
		assert.Equal(t, issuerID, *created[0].GeneratedBy)
	})

	t.Run("custom code applies to the first of a batch", func(t *testing.T) {
		codes := new(MockCodeRepository)
		var created []*entity.DeveloperCode
		codes.On("Create", mock.Anything, mock.AnythingOfType("*entity.DeveloperCode")).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*entity.DeveloperCode))
			}).
			Return(nil)
		svc := NewDeveloperCodeService(codes, nil, nil, fixedClock{}, "")

		values, err := svc.Generate(context.Background(), issuerID, entity.RoleAdmin, GenerateInput{
			Level:      entity.CodeLevelAdmin,
			Quantity:   3,
			CustomCode: "TEAM-ALPHA",
			Unlimited:  true,
		})

		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.Equal(t, "TEAM-ALPHA", values[0])
		assert.NotEqual(t, "TEAM-ALPHA", values[1])
		for _, c := range created {
			assert.Equal(t, entity.CodeLevelAdmin, c.Level)
			assert.Nil(t, c.MaxGenerations)
		}
	})
}

func TestDeveloperCodeService_Bind(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	codeID := uuid.New()
	otherUser := uuid.New()

	tests := []struct {
		name     string
		row      *entity.DeveloperCode
		bindWins bool
		wantRole entity.Role
		wantErr  error
	}{
		{
			name:    "unknown code",
			row:     nil,
			wantErr: ErrCodeNotFound,
		},
		{
			name:    "revoked code",
			row:     &entity.DeveloperCode{ID: codeID, Code: "DEAD", Level: entity.CodeLevelDeveloper},
			wantErr: ErrCodeNotFound,
		},
		{
			name:    "already bound",
			row:     &entity.DeveloperCode{ID: codeID, Code: "TAKEN", Level: entity.CodeLevelDeveloper, IsActive: true, BoundUserID: &otherUser},
			wantErr: ErrCodeAlreadyBound,
		},
		{
			name:    "lost the bind race",
			row:     &entity.DeveloperCode{ID: codeID, Code: "RACE", Level: entity.CodeLevelDeveloper, IsActive: true},
			wantErr: ErrCodeAlreadyBound,
		},
		{
			name:     "binds developer code",
			row:      &entity.DeveloperCode{ID: codeID, Code: "OK", Level: entity.CodeLevelDeveloper, IsActive: true},
			bindWins: true,
			wantRole: entity.RoleDeveloper,
		},
		{
			name:     "root code grants root",
			row:      &entity.DeveloperCode{ID: codeID, Code: "Vesper", Level: entity.CodeLevelRoot, IsActive: true},
			bindWins: true,
			wantRole: entity.RoleRoot,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			codes := new(MockCodeRepository)
			users := new(MockUserRepository)
			if tc.row == nil {
				codes.On("FindByCode", mock.Anything, mock.Anything).Return(nil, nil)
			} else {
				codes.On("FindByCode", mock.Anything, tc.row.Code).Return(tc.row, nil)
				if tc.row.IsActive && tc.row.BoundUserID == nil {
					codes.On("Bind", mock.Anything, tc.row.ID, userID, now).Return(tc.bindWins, nil)
				}
			}
			if tc.bindWins {
				users.On("ApplyBinding", mock.Anything, userID, tc.row.ID, tc.row.Level).Return(nil)
			}
			svc := NewDeveloperCodeService(codes, users, nil, fixedClock{t: now}, "")

			value := "missing"
			if tc.row != nil {
				value = tc.row.Code
			}
			role, err := svc.Bind(context.Background(), value, userID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				users.AssertNotCalled(t, "ApplyBinding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRole, role)
			users.AssertExpectations(t)
		})
	}
}

func TestDeveloperCodeService_Revoke(t *testing.T) {
	actorID := uuid.New()

	codes := new(MockCodeRepository)
	codes.On("Revoke", mock.Anything, "GONE").Return(false, nil)
	codes.On("Revoke", mock.Anything, "LIVE").Return(true, nil)
	svc := NewDeveloperCodeService(codes, nil, nil, fixedClock{}, "")

	assert.ErrorIs(t, svc.Revoke(context.Background(), actorID, "GONE"), ErrCodeNotFound)
	assert.NoError(t, svc.Revoke(context.Background(), actorID, "LIVE"))
}

// memoryCodeStore is a single-row store whose Bind applies the same
// conditional update the real repository issues as SQL.
type memoryCodeStore struct {
	mu  sync.Mutex
	row entity.DeveloperCode
}

func (s *memoryCodeStore) Create(ctx context.Context, code *entity.DeveloperCode) error {
	return nil
}

func (s *memoryCodeStore) FindByCode(ctx context.Context, code string) (*entity.DeveloperCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.row.Code != code {
		return nil, nil
	}
	row := s.row
	return &row, nil
}

func (s *memoryCodeStore) Bind(ctx context.Context, codeID uuid.UUID, userID uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.row.ID != codeID || s.row.BoundUserID != nil || !s.row.IsActive {
		return false, nil
	}
	uid := userID
	ts := at
	s.row.BoundUserID = &uid
	s.row.BoundAt = &ts
	return true, nil
}

func (s *memoryCodeStore) Revoke(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (s *memoryCodeStore) List(ctx context.Context) ([]entity.DeveloperCode, error) {
	return nil, nil
}

func (s *memoryCodeStore) EnsureGenesis(ctx context.Context, code string) error {
	return nil
}

func TestDeveloperCodeService_BindConcurrent(t *testing.T) {
	store := &memoryCodeStore{row: entity.DeveloperCode{
		ID:       uuid.New(),
		Code:     "DEV-developer-a1b2c3d4",
		Level:    entity.CodeLevelDeveloper,
		IsActive: true,
	}}
	users := new(MockUserRepository)
	users.On("ApplyBinding", mock.Anything, mock.Anything, store.row.ID, entity.CodeLevelDeveloper).Return(nil)
	svc := NewDeveloperCodeService(store, users, nil, fixedClock{t: time.Now()}, "")

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Bind(context.Background(), store.row.Code, uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, ErrCodeAlreadyBound):
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}
