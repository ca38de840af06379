package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"microblog/internal/interfaces"
	"microblog/internal/schemas"
)

// BeginTransaction begins a new database transaction on the request context.
// If the transaction fails to begin, it logs, renders an error page and returns nil.
func BeginTransaction(c *gin.Context, pool interfaces.PgxPoolIface) pgx.Tx {
	LogWithTrace(c, "debug", "Beginning transaction")

	tx, err := pool.Begin(c.Request.Context())
	if err != nil {
		LogErrorWithTrace(c, "Error beginning transaction", err)
		RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return nil
	}

	return tx
}

// RollbackTransaction rolls back the given transaction if an error occurred.
// Rolling back an already-committed transaction is not treated as a failure.
func RollbackTransaction(c *gin.Context, tx pgx.Tx, err error) {
	if err == nil {
		return
	}

	LogErrorWithTrace(c, "Rolling back transaction", err)
	if rollbackErr := tx.Rollback(c.Request.Context()); rollbackErr != nil {
		if errors.Is(rollbackErr, pgx.ErrTxClosed) {
			return
		}
		LogErrorWithTrace(c, "Error rolling back transaction", rollbackErr)
	}
}

// CommitTransaction attempts to commit the given transaction. If the commit
// fails, it logs, renders an error page and returns the error.
func CommitTransaction(c *gin.Context, tx pgx.Tx) error {
	LogWithTrace(c, "debug", "Committing transaction")

	if err := tx.Commit(c.Request.Context()); err != nil {
		LogErrorWithTrace(c, "Error committing transaction", err)
		RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return err
	}

	LogWithTrace(c, "debug", "Transaction committed")
	return nil
}
