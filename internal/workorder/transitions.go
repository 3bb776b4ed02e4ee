package workorder

import (
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
)

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to models.WorkOrderStatus) bool
}

// Permissive accepts any change between known statuses. Admins use it to
// correct mistakes, so orders can move backwards.
type Permissive struct{}

func (Permissive) Allow(from, to models.WorkOrderStatus) bool {
	return to.Valid()
}

// Strict only lets an order stay where it is or move forward in the
// lifecycle Aguardando, Em Andamento, Finalizado, Entregue.
type Strict struct{}

func (Strict) Allow(from, to models.WorkOrderStatus) bool {
	if !to.Valid() {
		return false
	}
	return to.Rank() >= from.Rank()
}

func PolicyByName(name string) (TransitionPolicy, error) {
	switch name {
	case "", "permissive":
		return Permissive{}, nil
	case "strict":
		return Strict{}, nil
	}
	return nil, fmt.Errorf("unknown transition policy %q", name)
}
