package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/models"
	"github.com/xylcg/finance4/internal/pagination"
)

// transactionService handles ledger business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateInput checks the fields shared by create and update.
func validateTransactionInput(in *TransactionInput) error {
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.Type != models.TransactionTypeIncome && in.Type != models.TransactionTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}
	if in.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	return nil
}

// CreateTransaction inserts a ledger entry and, when a goal is linked,
// shifts that goal's running total in the same database transaction.
func (s *transactionService) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
		Category:    in.Category,
		Date:        in.Date,
		GoalID:      in.GoalID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if in.GoalID != nil {
			return applyGoalAdjustment(tx, userID, *in.GoalID, in.Type, in.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// applyGoalAdjustment shifts the linked goal's running total by the signed
// effect of a transaction: income adds, expense subtracts. The lookup is
// scoped to the owner, so a goal id belonging to another user surfaces as
// not found and aborts the enclosing database transaction.
func applyGoalAdjustment(tx *gorm.DB, userID, goalID uint, transactionType models.TransactionType, amount int64) error {
	var goal models.Goal
	if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	delta := amount
	if transactionType == models.TransactionTypeExpense {
		delta = -amount
	}

	if err := tx.Model(&goal).
		Update("current_amount", gorm.Expr("current_amount + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// reverseGoalAdjustment undoes a previously applied adjustment. Unlike the
// apply path, a link whose goal no longer resolves is not an error: goals
// keep their linked entries for history when deleted, so there is simply
// nothing left to reverse.
func reverseGoalAdjustment(tx *gorm.DB, userID, goalID uint, transactionType models.TransactionType, amount int64) error {
	var goal models.Goal
	if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	delta := -amount
	if transactionType == models.TransactionTypeExpense {
		delta = amount
	}

	if err := tx.Model(&goal).
		Update("current_amount", gorm.Expr("current_amount + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// applyTransactionFilters composes the optional filters conjunctively.
// The date range is inclusive on both ends.
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces a transaction's fields. Any goal effect of the
// stored entry is reversed before the new one is applied, so edits cannot
// drift a goal's running total.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if transaction.GoalID != nil {
			if err := reverseGoalAdjustment(tx, userID, *transaction.GoalID, transaction.Type, transaction.Amount); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"amount":      in.Amount,
			"description": in.Description,
			"type":        in.Type,
			"category":    in.Category,
			"date":        in.Date,
			"goal_id":     in.GoalID,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if in.GoalID != nil {
			return applyGoalAdjustment(tx, userID, *in.GoalID, in.Type, in.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction and reverses its goal effect, if any.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if transaction.GoalID != nil {
			return reverseGoalAdjustment(tx, userID, *transaction.GoalID, transaction.Type, transaction.Amount)
		}
		return nil
	})
}
