package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStatus is the connection-pool slice of the /health/db payload.
type PoolStatus struct {
	Open  int32 `json:"open"`
	Idle  int32 `json:"idle"`
	InUse int32 `json:"in_use"`
	Max   int32 `json:"max"`
}

// ReadPoolStatus snapshots the pool counters.
func ReadPoolStatus(pool *pgxpool.Pool) PoolStatus {
	st := pool.Stat()
	return PoolStatus{
		Open:  st.TotalConns(),
		Idle:  st.IdleConns(),
		InUse: st.AcquiredConns(),
		Max:   st.MaxConns(),
	}
}

// HealthHandler serves the database health route: a bounded ping plus the
// pool counters, 503 when the ping fails.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		status := ReadPoolStatus(pool)
		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status": "unhealthy",
				"error":  err.Error(),
				"pool":   status,
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"status": "healthy",
			"pool":   status,
		})
	}
}
