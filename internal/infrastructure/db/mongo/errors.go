package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// classifyConstraint maps a write error that looks like a store constraint
// violation to a domain.ConstraintError with a best-effort detail derived
// from the error text. Anything unrecognized is returned unchanged so the
// boundary treats it as an unhandled failure.
func classifyConstraint(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case mongo.IsDuplicateKeyError(err),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"):
		return &domain.ConstraintError{Detail: "resource already exists", Err: err}
	case strings.Contains(msg, "foreign key constraint"):
		return &domain.ConstraintError{Detail: "referenced resource not found", Err: err}
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		return &domain.ConstraintError{Detail: "store constraint violation", Err: err}
	}

	return err
}
