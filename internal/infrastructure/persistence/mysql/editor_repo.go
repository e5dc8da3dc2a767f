package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booknotes/internal/domain/editor"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

type editorRepository struct {
	db *gorm.DB
}

// NewEditorRepository creates the credential store
func NewEditorRepository(db *gorm.DB) editor.CredentialRepository {
	return &editorRepository{db: db}
}

// FindByUsername matches case-insensitively
func (r *editorRepository) FindByUsername(ctx context.Context, username string) (*editor.Editor, error) {
	var model EditorModel
	err := getDB(ctx, r.db).
		Where("LOWER(username) = ?", editor.NormalizeUsername(username)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, editor.ErrEditorNotFound
		}
		return nil, apperrors.Wrap(err, "query editor")
	}

	return &editor.Editor{
		ID:        model.ID,
		Username:  model.Username,
		Password:  model.Password,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Save upserts by username
func (r *editorRepository) Save(ctx context.Context, e *editor.Editor) error {
	model := &EditorModel{
		Username:  editor.NormalizeUsername(e.Username),
		Password:  e.Password,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "save editor")
	}

	e.ID = model.ID
	return nil
}

// Count counts stored editors
func (r *editorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := getDB(ctx, r.db).Model(&EditorModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "count editors")
	}
	return n, nil
}

// CreateIfAbsent inserts unless the username exists (ON CONFLICT DO NOTHING)
func (r *editorRepository) CreateIfAbsent(ctx context.Context, e *editor.Editor) (bool, error) {
	model := &EditorModel{
		Username:  editor.NormalizeUsername(e.Username),
		Password:  e.Password,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	res := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(model)
	if res.Error != nil {
		return false, apperrors.Wrap(res.Error, "create editor")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	e.ID = model.ID
	return true, nil
}
