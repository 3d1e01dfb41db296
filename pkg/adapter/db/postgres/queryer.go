package postgres

import (
	"context"

	"github.com/momeni/parking-lot/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the common constraint of Conn and Tx, so the repository
// queries can be implemented once as generic functions and used with
// both of them.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
